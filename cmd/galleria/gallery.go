package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sagarc03/galleria"
	"github.com/sagarc03/galleria/config"
	"github.com/sagarc03/galleria/filesystem"
)

// openStore opens the configured store directory. With create set, a
// missing directory is created. The returned func closes the store root.
func openStore(cfg *config.Config, create bool) (*filesystem.Store, func(), error) {
	path := cfg.Store.Path

	if create {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create store directory: %w", err)
		}
	} else if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("store directory does not exist: %s", path)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store root: %w", err)
	}

	return filesystem.NewFileStorage(root), func() { _ = root.Close() }, nil
}

// openGallery opens the configured store and builds a service on top of it.
func openGallery(cfg *config.Config, create bool) (*galleria.GalleryService, func(), error) {
	store, closeRoot, err := openStore(cfg, create)
	if err != nil {
		return nil, nil, err
	}

	serviceCfg, err := cfg.Store.ServiceConfig()
	if err != nil {
		closeRoot()
		return nil, nil, fmt.Errorf("store config: %w", err)
	}

	service, err := galleria.NewGalleryService(store, serviceCfg)
	if err != nil {
		closeRoot()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, closeRoot, nil
}

package config_test

import (
	"context"
	"fmt"
	"log"

	"github.com/sagarc03/galleria/config"
)

func ExampleLoad() {
	cfg, err := config.Load(nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Addr: %s, Digest: %s\n", cfg.Server.Addr(), cfg.Store.Digest)
	// Output: Addr: 0.0.0.0:3001, Digest: md5
}

func ExampleWithContext() {
	cfg, _ := config.Load(nil, nil)
	ctx := config.WithContext(context.Background(), cfg)

	fromCtx, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(fromCtx.Auth.CookieName, fromCtx.Auth.CookieTTL())
	// Output: galleria_session 5m0s
}

func ExampleAuthConfig_Validate() {
	cfg, _ := config.Load(nil, nil)

	// defaults carry no credentials
	fmt.Println(cfg.Auth.Validate() != nil)

	cfg.Auth.SecretKey = "s3cret"
	cfg.Auth.Salt = "salt"
	cfg.Auth.Username = "admin"
	cfg.Auth.Password = "hunter2"
	fmt.Println(cfg.Auth.Validate())
	// Output:
	// true
	// <nil>
}

func ExampleConfig_Redacted() {
	cfg := config.Config{Auth: config.AuthConfig{Username: "admin", Password: "hunter2"}}

	r := cfg.Redacted()
	fmt.Println(r.Auth.Username, r.Auth.Password, r.Auth.SecretKey == "")
	// Output: admin [redacted] true
}

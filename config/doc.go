// Package config loads galleria settings from YAML files, GALLERIA_* environment
// variables and command line flags, in rising order of precedence, on top of
// built-in defaults. Several files may be given; later ones are merged over
// earlier ones.
//
//	cfg, err := config.Load([]string{"galleria.yaml"}, cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	ctx = config.WithContext(ctx, cfg)
//
// Nested keys become upper-case variable names joined by underscores, so
// auth.secret_key is read from GALLERIA_AUTH_SECRET_KEY and store.digest from
// GALLERIA_STORE_DIGEST. Only --store-path, --host, --port, --debug and
// --log-level are bound to keys.
//
// A minimal file for serving:
//
//	auth:
//	  secret_key: change-me
//	  salt: session
//	  username: admin
//	  password: hunter2
//	store:
//	  path: /var/lib/galleria
//
// Load rejects bad ports, unknown digests and log levels. The auth section is
// left to AuthConfig.Validate so that store-only commands such as add, list
// and remove work without credentials.
package config

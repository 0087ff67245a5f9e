// Package config loads route table files.
//
// A route table file is YAML. Route order in the file is match order:
//
//	name: storefront
//	splatKey: path
//	sensitive: false
//	cacheSize: 256
//	log:
//	  level: info
//	  format: json
//	routes:
//	  home: /
//	  profile: /user/:id
//	  files: /files/*
//
// # Features
//
//   - Environment variable substitution with ${VAR:-default} syntax
//   - Validation with detailed error reporting
//   - A fresh revision id on every load
//   - File watching with debounced hot-reload
//
// # Loading
//
//	cfg, err := config.LoadConfig("routes.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    return err
//	}
//	table, err := cfg.Table()
//
// # File Watching
//
//	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    // swap the live table
//	}, config.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
package config

// Package config provides configuration parsing for adminkit servers.
//
// The configuration is stored in adminkit.json (or adminkit.yaml) at the
// project root. Every field is optional; missing values get defaults.
//
// # Configuration File Structure
//
//	{
//	  "name": "Inventory Admin",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "10s"
//	  },
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	  "session": {"cookieName": "adminkit_session", "idleTimeout": "30m"},
//	  "drawers": {
//	    "defaultWidth": 720,
//	    "confirmTitle": "Unsaved changes"
//	  },
//	  "log": {"level": "info", "format": "json"}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config

// Package config provides configuration parsing for filerouter projects.
//
// The configuration is stored in filerouter.json at the project root. Values
// can be overridden by FILEROUTER_ROOT, FILEROUTER_PORT, FILEROUTER_HOST and
// FILEROUTER_OUTPUT, taken from the process environment or from a .env file
// next to filerouter.json.
//
// # Configuration File Structure
//
//	{
//	  "root": "src/pages",
//	  "extensions": ["tsx", "jsx"],
//	  "notFound": "./src/pages/404.tsx",
//	  "loading": "./src/components/Loading.tsx",
//	  "ignore": ["**/_*", "**/*.test.*"],
//	  "duplicates": "reject",
//	  "output": "src/.filerouter/routes.gen.jsx",
//	  "dev": {
//	    "host": "localhost",
//	    "port": 5174,
//	    "debounce": "100ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Pages:", cfg.RootPath())
package config

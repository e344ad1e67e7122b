package main

import (
	"flag"
	"log"
	"os"

	"github.com/tuannm99/minisql"
	"github.com/tuannm99/minisql/internal"
	"github.com/tuannm99/minisql/server/minisqlwire"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "optional yaml config file")
		addr    = flag.String("addr", "127.0.0.1:8866", "listen address")
		dbName  = flag.String("db", "mydb", "database name")
		dataDir = flag.String("data-dir", "data", "directory for database files")
	)
	flag.Parse()

	name, dir, listen := *dbName, *dataDir, *addr
	if *cfgPath != "" {
		cfg, err := internal.LoadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		name = cfg.Database.Name
		dir = cfg.Database.DataDir
		listen = cfg.Server.Addr
	}

	db, err := minisql.Open(name, dir)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	if err := minisqlwire.Run(minisqlwire.ServerConfig{Addr: listen}, db); err != nil {
		log.Printf("server: %v", err)
		os.Exit(1)
	}
}

// Package config provides configuration parsing for mirror servers.
//
// The configuration is stored in mirror.yaml. Every field is optional;
// missing fields take the defaults returned by New.
//
// # Configuration File Structure
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	  read_timeout: 60s
//	  write_timeout: 10s
//	  heartbeat_interval: 30s
//	  max_event_queue: 256
//	  shutdown_timeout: 10s
//	  allowed_origins: ["https://example.com"]
//	upload:
//	  enabled: true
//	  backend: s3          # or disk
//	  dir: ./__mirror_tmp__
//	  max_size: 10485760
//	  bucket: my-uploads
//	  prefix: incoming/
//	  region: eu-west-1
//	  endpoint: ""         # S3-compatible service URL
//	static:
//	  dir: ./public
//	  stylesheets: [./public/app.css]
//	metrics:
//	  enabled: true
//	  path: /metrics
//	  namespace: mirror
//	tracing:
//	  enabled: true
//	  tracer_name: mirror
//	log:
//	  level: info          # debug, info, warn, error
//	  format: text         # or json
//
// # Usage
//
//	cfg, err := config.LoadFile("mirror.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Addr())
package config

package machinae

// Version is the current release. It can be overridden at build time:
//
//	go build -ldflags "-X github.com/rustgd/machinae.Version=v1.2.3"
var Version = "0.4.0"

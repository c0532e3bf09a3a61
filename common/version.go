package common

// PackageName identifies this service in logs.
const PackageName = "sealstore"

// Version is set at build time via -ldflags.
var Version = "dev"

package common

var Version = "dev"

// PackageName also serves as the metrics namespace.
const PackageName = "didcrypto"

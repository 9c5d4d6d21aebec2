package app

// Version is stamped manually per release.
const Version = "0.5.0"

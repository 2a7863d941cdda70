package tracker

// Version is the release version of the tracker tools.
const Version = "0.3.0"

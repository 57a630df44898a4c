package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// V1Path prefixes every versioned API route.
	V1Path = RootPath + "v1"
)

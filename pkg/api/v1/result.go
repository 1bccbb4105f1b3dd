package v1

type Missing struct {
	First  []string `json:"first"`
	Second []string `json:"second"`
}

type VersionInfo struct {
	Version string `json:"version"`
	Epoch   int    `json:"epoch"`
}

type NewerPackage struct {
	Name   string      `json:"name"`
	First  VersionInfo `json:"first"`
	Second VersionInfo `json:"second"`
}

type Newer struct {
	First []NewerPackage `json:"first"`
}

// Entry is the comparison of a single architecture.
type Entry struct {
	Missing Missing `json:"missing"`
	Newer   Newer   `json:"newer"`
}

// Result maps an architecture to its comparison.
type Result map[string]Entry

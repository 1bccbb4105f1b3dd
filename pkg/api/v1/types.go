package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	VersionSchemeRPM    = "rpm"
	VersionSchemeDebian = "deb"
)

type SourceSpec struct {
	// URL is the base address of the RDB API.
	URL          string           `json:"url,omitempty"`
	CacheTTL     *metav1.Duration `json:"cacheTTL,omitempty"`
	DisableCache bool             `json:"disableCache,omitempty"`
	Retries      *int             `json:"retries,omitempty"`
}

type ComparisonSpec struct {
	First         string   `json:"first,omitempty"`
	Second        string   `json:"second,omitempty"`
	Arches        []string `json:"arches,omitempty"`
	VersionScheme string   `json:"versionScheme,omitempty"`

	Source SourceSpec `json:"source,omitempty"`
	// Snapshots maps a branch name to an exported
	// package list. When set, the RDB API is not used.
	Snapshots map[string]string `json:"snapshots,omitempty"`
}

type Comparison struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ComparisonSpec `json:"spec"`
}

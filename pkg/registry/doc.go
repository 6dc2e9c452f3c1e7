// Package registry fetches Biolink Model releases from GitHub.
//
// The Biolink Model lives in the biolink/biolink-model repository; each
// release is a git tag and the schema itself is the biolink-model.yaml
// file at that tag. This package discovers release tags through the
// GitHub API (paged, cached for a few minutes) and downloads schema
// documents from raw.githubusercontent.com (cached long-term, since a
// released tag's content is immutable).
//
// Tag naming is inconsistent across Biolink history - some releases are
// bare ("4.2.1"), some v-prefixed ("v4.2.1") - so version resolution
// tries both forms. The special version "master" always refers to the
// repository's development head and is cached only briefly.
package registry

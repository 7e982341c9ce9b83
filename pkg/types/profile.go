package types

// AWSProfile is a named profile from ~/.aws/config or ~/.aws/credentials.
// `kse aws profiles` lists them and one may be saved as the default for
// publish and import.
type AWSProfile struct {
	Name   string
	Region string // empty unless the profile sets region
	Source string // "config" or "credentials"
}

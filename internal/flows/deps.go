package flows

// Deps groups flow dependency sets. The root manager builds this once at
// construction and delegates each public method to the matching flow.
type Deps struct {
	Generate GenerateDeps
	Validate ValidateDeps
	Refresh  RefreshDeps
	Revoke   RevokeDeps
}

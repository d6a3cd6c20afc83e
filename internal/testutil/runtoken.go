package testutil

// FixedRunToken generates the same run token every time.
//
// Scenario snapshots and ledger rows embed the run token, so harness runs
// use a fixed one to stay byte-identical.
//
// Thread-safety: FixedRunToken is stateless and safe for concurrent use.
type FixedRunToken struct {
	token string
}

// NewFixedRunToken creates a new fixed run token generator.
//
// If token is empty, Generate() returns "test-run-default".
func NewFixedRunToken(token string) *FixedRunToken {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedRunToken{token: token}
}

// Generate returns the fixed run token.
//
// Implements pipeline.RunTokenGenerator.
func (g *FixedRunToken) Generate() string {
	return g.token
}

package erpsync

import "context"

// ---------------------------------------------------------------------------
// ErpGateway Port
// ---------------------------------------------------------------------------

// SessionToken is the opaque, short-lived token the remote ERP issues on
// authentication. A token is scoped to exactly the connection that produced
// it and is passed explicitly through every call, never cached in package
// state.
type SessionToken string

// Credentials carries every identity field the remote authentication
// protocol requires. Password is plaintext here; it exists only in memory
// between vault decryption and the authentication round trip.
type Credentials struct {
	Username       string
	Password       string
	AppID          string
	Company        string
	Branch         string
	Module         string
	ReferenceID    string
	Version        string
	RegisteredName string
}

// RemoteObject is one entry of the ERP's schema catalogue. Type is advisory
// metadata only: the remote catalogue has been observed to omit expected
// objects from their declared type-category, so callers filter by name.
type RemoteObject struct {
	Name string
	Type string
}

// DataQuery describes one paginated read of a remote object
type DataQuery struct {
	ObjectName string
	Token      SessionToken
	AppID      string
	Filters    map[string]string
	Limit      int
	Offset     int
}

// DataPage is one page of remote rows plus the total remote row count
type DataPage struct {
	Rows  []map[string]any
	Total int
}

// DataPush describes one remote write, keyed by the natural key
type DataPush struct {
	ObjectName string
	Key        string
	Payload    map[string]any
	Token      SessionToken
	AppID      string
	Version    string
	Extra      map[string]any
}

// ErpGateway is the port for the proprietary remote ERP protocol. Every call
// is a single-shot HTTP round trip with a bounded timeout; the gateway never
// retries internally so that retry counts stay attributable to sync stats.
type ErpGateway interface {
	// Authenticate opens a remote session and returns its token.
	// Returns ErrAuthenticationFailed (wrapped) on rejected credentials and
	// ErrTransport (wrapped) on network failures.
	Authenticate(ctx context.Context, creds Credentials) (SessionToken, error)

	// ListObjects returns the remote schema catalogue for the application
	ListObjects(ctx context.Context, token SessionToken, appID string) ([]RemoteObject, error)

	// FetchData reads one page of rows from a remote object
	FetchData(ctx context.Context, q DataQuery) (*DataPage, error)

	// PushData writes one record to a remote object
	PushData(ctx context.Context, p DataPush) error
}

// CredentialCipher is the port for at-rest credential protection. Encrypt
// returns an envelope; Decrypt fails with ErrEnvelopeFormat on a malformed
// envelope and ErrDecryptionFailed when authentication of the ciphertext
// fails. It never returns partial plaintext.
type CredentialCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
}

package erpclient

// Wire types for the remote ERP's session-based JSON protocol. Field names
// follow the remote contract; the rest of the system only sees the domain
// shapes these convert to.

type loginRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	AppID          string `json:"appId"`
	Company        string `json:"company,omitempty"`
	Branch         string `json:"branch,omitempty"`
	Module         string `json:"module,omitempty"`
	ReferenceID    string `json:"refId,omitempty"`
	Version        string `json:"version,omitempty"`
	RegisteredName string `json:"registeredName,omitempty"`
}

type loginResponse struct {
	Success   bool       `json:"success"`
	SessionID string     `json:"clientID"`
	Error     *wireError `json:"error,omitempty"`
}

type listObjectsRequest struct {
	SessionID string `json:"clientID"`
	AppID     string `json:"appId"`
}

type listObjectsResponse struct {
	Success bool         `json:"success"`
	Objects []wireObject `json:"objects"`
	Error   *wireError   `json:"error,omitempty"`
}

type wireObject struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type getDataRequest struct {
	SessionID  string            `json:"clientID"`
	AppID      string            `json:"appId"`
	ObjectName string            `json:"object"`
	Filters    map[string]string `json:"filters,omitempty"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

type getDataResponse struct {
	Success bool             `json:"success"`
	Rows    []map[string]any `json:"rows"`
	Total   int              `json:"totalcount"`
	Error   *wireError       `json:"error,omitempty"`
}

type setDataRequest struct {
	SessionID  string         `json:"clientID"`
	AppID      string         `json:"appId"`
	ObjectName string         `json:"object"`
	Key        string         `json:"key"`
	Version    string         `json:"version,omitempty"`
	Data       map[string]any `json:"data"`
	Extra      map[string]any `json:"extra,omitempty"`
}

type setDataResponse struct {
	Success bool       `json:"success"`
	Error   *wireError `json:"error,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Remote error codes that identify an expired or invalidated session
const (
	errCodeSessionExpired = "SESSION_EXPIRED"
	errCodeSessionInvalid = "SESSION_INVALID"
)

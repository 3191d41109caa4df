package domain

// API response envelope shared by every endpoint:
// {"status": "success"|"error"|"empty", "message": ..., "data": ...}
type APIEnvelope struct {
	Status  string `json:"status"`
	Message any    `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OkData(data any) APIEnvelope {
	return APIEnvelope{Status: "success", Data: data}
}

func OkMessage(msg string) APIEnvelope {
	return APIEnvelope{Status: "success", Message: msg}
}

// Empty marks "no rows exist at all", distinct from an error and from
// zero matches of a filter.
func Empty(msg string) APIEnvelope {
	return APIEnvelope{Status: "empty", Message: msg}
}

func Fail(msg any) APIEnvelope {
	return APIEnvelope{Status: "error", Message: msg}
}

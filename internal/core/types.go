package core

import "fmt"

const (
	AppName       = "nanobridge"
	AppUserAgent  = "NanoBridge/0.1"
	RepositoryURL = "https://github.com/sandevgo/nanobridge"
	AppVersion    = "0.1.0"
)

// Role identifies the author of a conversation message. The set is closed:
// anything outside system/user/assistant is rejected by ParseRole.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the serialization label used when a conversation is rendered
// into a single text prompt.
func (r Role) Label() string {
	switch r {
	case RoleSystem:
		return "SYSTEM"
	case RoleUser:
		return "USER"
	case RoleAssistant:
		return "ASSISTANT"
	}
	return ""
}

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

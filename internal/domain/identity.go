package domain

// Identity is the authenticated user bound to one client.
type Identity struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"ucpName"`
	Characters  []string `json:"characters"`
}

func (i Identity) Valid() bool {
	return i.Username != "" && len(i.Characters) > 0
}

func (i Identity) HasCharacter(name string) bool {
	for _, c := range i.Characters {
		if c == name {
			return true
		}
	}
	return false
}

// DefaultCharacter is the first character, used to prefill checkout.
func (i Identity) DefaultCharacter() string {
	if len(i.Characters) == 0 {
		return ""
	}
	return i.Characters[0]
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Account struct {
	Username    string `db:"username"`
	DisplayName string `db:"display_name"`
	Hash        string `db:"password_hash"`
	Role        string `db:"role"`
}

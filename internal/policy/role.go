package policy

// Role 系统固定的四种角色，每个用户有且仅有一个
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

var AllRoles = []Role{RoleAdmin, RoleEditor, RoleAuthor, RoleReader}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleAuthor, RoleReader:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(raw string) (Role, bool) {
	r := Role(raw)
	return r, r.Valid()
}

// Caller 调用方身份，零值表示匿名
type Caller struct {
	ID   uint64
	Role Role
}

func Anonymous() Caller {
	return Caller{}
}

func (c Caller) IsAnonymous() bool {
	return c.ID == 0
}

// Owns 判断调用方是否为资源所有者
func (c Caller) Owns(ownerID uint64) bool {
	return !c.IsAnonymous() && ownerID != 0 && c.ID == ownerID
}

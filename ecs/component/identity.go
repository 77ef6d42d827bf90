package component

// Identity records which prefab built the entity.
type Identity struct {
	Media string
	Name  string
}

var IdentityComponent = NewComponent[Identity]()

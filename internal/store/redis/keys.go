package redis

import "fmt"

const (
	fieldTotal  = "total"
	fieldStatus = "status"
	fieldOwner  = "owner"
	fieldDugBy  = "dugBy"
	fieldColor  = "color"
	fieldVisual = "visual"
	fieldDugAt  = "dugAt"
)

// metaKey holds the grid size: digzone:{ns}:meta.
func metaKey(ns string) string {
	return fmt.Sprintf("digzone:%s:meta", ns)
}

// blockKey holds one block: digzone:{ns}:block:{index}. A missing hash is an undug block.
func blockKey(ns string, index int) string {
	return fmt.Sprintf("digzone:%s:block:%d", ns, index)
}

// usersKey maps username to the JSON user record: digzone:{ns}:users.
func usersKey(ns string) string {
	return fmt.Sprintf("digzone:%s:users", ns)
}

package domain

// Attachment is the outcome of loading the external component: either
// Attached or StaleOrAbsent.
type Attachment interface {
	attachment()
}

// Attached carries a loaded component. Target is nil when the component has
// no runnable shell to attach to.
type Attached struct {
	Client Client
	Target AttachTarget
}

// StaleOrAbsent means the component could not be loaded or is outdated.
type StaleOrAbsent struct {
	Reason error
}

func (Attached) attachment()      {}
func (StaleOrAbsent) attachment() {}

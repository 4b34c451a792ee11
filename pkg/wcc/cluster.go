// Package wcc implements well-connected component refinement: an initial
// clustering is recursively bipartitioned along minimum edge cuts until
// every surviving cluster exceeds a size-scaled connectivity threshold or
// is discarded as too small.
package wcc

// Cluster is a mutable grouping of internal vertex ids under refinement.
// Every Cluster exclusively owns its member set; splits construct new
// Clusters rather than sharing storage, so recursion branches never alias.
type Cluster struct {
	// ID is inherited by all descendants produced from one initial
	// cluster. Constructors leave it at -1 for the caller to assign.
	ID int64

	// IsWCC marks a cluster that passed the well-connectedness test.
	// Terminal: it is never reset.
	IsWCC bool

	members map[int64]struct{}
}

// NewCluster builds a cluster from a slice of internal vertex ids.
func NewCluster(ids []int64) *Cluster {
	members := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}
	return &Cluster{ID: -1, members: members}
}

// NewClusterFromSet builds a cluster from a set of internal vertex ids.
// The set is copied, never aliased.
func NewClusterFromSet(ids map[int64]struct{}) *Cluster {
	members := make(map[int64]struct{}, len(ids))
	for id := range ids {
		members[id] = struct{}{}
	}
	return &Cluster{ID: -1, members: members}
}

// Size returns the number of members.
func (c *Cluster) Size() int {
	return len(c.members)
}

// IsSingleton reports whether the cluster has at most one member.
func (c *Cluster) IsSingleton() bool {
	return len(c.members) <= 1
}

// Contains reports whether internal vertex id v is a member.
func (c *Cluster) Contains(v int64) bool {
	_, ok := c.members[v]
	return ok
}

// Remove deletes a member. Used only by degree-one pruning; all other
// membership transitions construct new Clusters.
func (c *Cluster) Remove(v int64) {
	delete(c.members, v)
}

// Members returns the member set. The set is owned by the cluster and must
// not be retained or modified by callers.
func (c *Cluster) Members() map[int64]struct{} {
	return c.members
}

// MemberSlice returns the members as a freshly allocated slice in
// unspecified order.
func (c *Cluster) MemberSlice() []int64 {
	ids := make([]int64, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	return ids
}

package treasury

// approvals tracks which board members approved one transaction.
// Flags are indexed by member position; count always equals the number of
// set flags.
type approvals struct {
	flags []bool
	count int
}

func newApprovals(members int) approvals {
	return approvals{flags: make([]bool, members)}
}

func (a *approvals) grant(member int) error {
	if a.flags[member] {
		return ErrAlreadyApproved
	}
	a.flags[member] = true
	a.count++
	return nil
}

func (a *approvals) retract(member int) error {
	if !a.flags[member] {
		return ErrNoPriorApproval
	}
	a.flags[member] = false
	a.count--
	return nil
}

func (a *approvals) has(member int) bool {
	return a.flags[member]
}

func (a *approvals) snapshot() []bool {
	out := make([]bool, len(a.flags))
	copy(out, a.flags)
	return out
}

func (a *approvals) clone() approvals {
	return approvals{flags: a.snapshot(), count: a.count}
}

package farm

// Bank rules operate on the player aggregate directly; persistence and
// conflict handling stay at the storage boundary.

// Loan credits coins against the player's credit line. Returns false when the
// request is non-positive or would push debt past the limit.
func Loan(p *Player, amount, limit int) bool {
	if amount <= 0 || p.Debt+amount > limit {
		return false
	}
	p.Debt += amount
	p.Coins += amount
	return true
}

// Repay pays down debt from coins on hand. Amounts above the outstanding debt
// are trimmed to it.
func Repay(p *Player, amount int) bool {
	if amount <= 0 || p.Debt == 0 {
		return false
	}
	if amount > p.Debt {
		amount = p.Debt
	}
	if p.Coins < amount {
		return false
	}
	p.Coins -= amount
	p.Debt -= amount
	return true
}

func Deposit(p *Player, amount int) bool {
	if amount <= 0 || p.Coins < amount {
		return false
	}
	p.Coins -= amount
	p.Savings += amount
	return true
}

func Withdraw(p *Player, amount int) bool {
	if amount <= 0 || p.Savings < amount {
		return false
	}
	p.Savings -= amount
	p.Coins += amount
	return true
}

package ledger

// EntryKind identifies one of the six ledger entry variants. The set is
// closed: every operation switches exhaustively over these values and an
// unknown kind is rejected at the boundary, never dispatched on.
type EntryKind string

const (
	KindIncome     EntryKind = "INCOME"
	KindExpense    EntryKind = "EXPENSE"
	KindProduction EntryKind = "PRODUCTION"
	KindCapital    EntryKind = "CAPITAL"
	KindWithdrawal EntryKind = "WITHDRAWAL"
	KindTransfer   EntryKind = "TRANSFER"
)

// AllKinds lists every entry kind in presentation order
var AllKinds = []EntryKind{
	KindIncome,
	KindExpense,
	KindProduction,
	KindCapital,
	KindWithdrawal,
	KindTransfer,
}

// IsValid checks if the kind is a valid EntryKind
func (k EntryKind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindProduction, KindCapital, KindWithdrawal, KindTransfer:
		return true
	}
	return false
}

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

// DisplayName returns a human-readable name for the kind
func (k EntryKind) DisplayName() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	case KindProduction:
		return "Production/Resale"
	case KindCapital:
		return "Capital contribution"
	case KindWithdrawal:
		return "Withdrawal"
	case KindTransfer:
		return "Transfer"
	default:
		return string(k)
	}
}

// Sign returns the signed direction of the kind against its single account:
// +1 for inflows, -1 for outflows. Transfer has no single sign; its two legs
// are handled explicitly by Entry.Deltas.
func (k EntryKind) Sign() int {
	switch k {
	case KindIncome, KindCapital:
		return 1
	case KindExpense, KindProduction, KindWithdrawal:
		return -1
	default:
		return 0
	}
}

// HasCategory reports whether entries of this kind carry a category reference
func (k EntryKind) HasCategory() bool {
	switch k {
	case KindIncome, KindExpense, KindProduction:
		return true
	}
	return false
}

// HasCompany reports whether entries of this kind carry a company reference
func (k EntryKind) HasCompany() bool {
	return k != KindTransfer
}

// CategoryKind returns the category forest this kind draws from, or ""
// for kinds without categories.
func (k EntryKind) CategoryKind() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	case KindProduction:
		return "production"
	default:
		return ""
	}
}

// ParseEntryKind converts a URL/path segment into an EntryKind
func ParseEntryKind(s string) (EntryKind, bool) {
	switch s {
	case "income":
		return KindIncome, true
	case "expense":
		return KindExpense, true
	case "production":
		return KindProduction, true
	case "capital":
		return KindCapital, true
	case "withdrawal":
		return KindWithdrawal, true
	case "transfer":
		return KindTransfer, true
	}
	return "", false
}

// PathSegment returns the URL path segment for the kind
func (k EntryKind) PathSegment() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	case KindProduction:
		return "production"
	case KindCapital:
		return "capital"
	case KindWithdrawal:
		return "withdrawal"
	case KindTransfer:
		return "transfer"
	default:
		return ""
	}
}

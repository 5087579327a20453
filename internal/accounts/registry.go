package accounts

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/id"
	"github.com/cleared-dev/sanad/internal/match"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/persian"
)

// CodeAlphabet is the ordered set of symbols used for root codes and child
// suffixes.
const CodeAlphabet = "123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PersistFunc stores a new or changed account. It runs under the registry
// lock before the change becomes visible.
type PersistFunc func(model.Account) error

// UpdateParams holds the mutable fields of an account. Nil fields are left
// unchanged. Codes, types and parents never change.
type UpdateParams struct {
	Name        *string
	Description *string
}

// CreateParams holds parameters for creating an account.
type CreateParams struct {
	Name        string
	Type        model.AccountType
	ParentID    string
	Code        string // optional; assigned when empty
	Description string
}

// Totals are the debit and credit sums posted to an account, on its own and
// across its whole subtree.
type Totals struct {
	OwnDebit      model.Amount
	OwnCredit     model.Amount
	SubtreeDebit  model.Amount
	SubtreeCredit model.Amount
}

type node struct {
	acct     model.Account
	children []string
	totals   Totals
}

// Registry is the chart of accounts with incrementally maintained balances.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	nodes  map[string]*node
	byCode map[string]string
	now    func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:  make(map[string]*node),
		byCode: make(map[string]string),
		now:    time.Now,
	}
}

// Restore builds a Registry from previously persisted accounts. Every account
// must satisfy the code invariant against its parent.
func Restore(accounts []model.Account) (*Registry, error) {
	r := NewRegistry()
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Code) < utf8.RuneCountInString(sorted[j].Code)
	})
	for _, a := range sorted {
		if err := r.insertExisting(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) insertExisting(a model.Account) error {
	if a.ID == "" {
		return apperr.ErrInvalidAccount.Withf("account %q has no id", a.Code)
	}
	if _, dup := r.nodes[a.ID]; dup {
		return apperr.ErrInvalidAccount.Withf("duplicate account id %s", a.ID)
	}
	var parent *node
	if a.ParentID != "" {
		p, ok := r.nodes[a.ParentID]
		if !ok {
			return apperr.ErrUnknownParent.Withf("account %s references unknown parent %s", a.Code, a.ParentID)
		}
		parent = p
	}
	if err := r.checkCode(a.Code, parent); err != nil {
		return err
	}
	r.insert(a)
	return nil
}

// Create validates and adds an account, assigning a code when none is given.
// If persist fails the registry is left unchanged.
func (r *Registry) Create(p CreateParams, persist PersistFunc) (model.Account, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return model.Account{}, apperr.ErrInvalidAccount.Withf("account name is empty")
	}
	if !p.Type.Valid() {
		return model.Account{}, apperr.ErrInvalidAccount.Withf("unknown account type %q", p.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var parent *node
	if p.ParentID != "" {
		pn, ok := r.nodes[p.ParentID]
		if !ok {
			return model.Account{}, apperr.ErrUnknownParent.Withf("parent %s not found", p.ParentID)
		}
		if pn.acct.Type != p.Type {
			return model.Account{}, apperr.ErrInvalidParentType.Withf(
				"%s account cannot be placed under %s account %s", p.Type, pn.acct.Type, pn.acct.Code)
		}
		parent = pn
	}

	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if code != "" {
		if err := r.checkCode(code, parent); err != nil {
			return model.Account{}, err
		}
	} else {
		next, err := r.nextCode(parent)
		if err != nil {
			return model.Account{}, err
		}
		code = next
	}

	acct := model.Account{
		ID:          id.New(),
		Code:        code,
		Name:        name,
		Type:        p.Type,
		ParentID:    p.ParentID,
		Description: p.Description,
		CreatedAt:   r.now().UTC(),
	}

	if persist != nil {
		if err := persist(acct); err != nil {
			return model.Account{}, apperr.ErrCommitFailed.Wrap("persisting account "+code, err)
		}
	}

	r.insert(acct)
	return acct, nil
}

// Update changes an account's name or description. If persist fails the
// registry is left unchanged.
func (r *Registry) Update(id string, p UpdateParams, persist PersistFunc) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[id]
	if !ok {
		return model.Account{}, apperr.ErrUnknownAccount.Withf("account %s not found", id)
	}
	acct := n.acct
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return model.Account{}, apperr.ErrInvalidAccount.Withf("account name is empty")
		}
		acct.Name = name
	}
	if p.Description != nil {
		acct.Description = strings.TrimSpace(*p.Description)
	}
	return r.replaceLocked(n, acct, persist)
}

// Deactivate marks an account inactive. Its code is never handed out again
// and its postings stay in every report.
func (r *Registry) Deactivate(id string, persist PersistFunc) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[id]
	if !ok {
		return model.Account{}, apperr.ErrUnknownAccount.Withf("account %s not found", id)
	}
	if n.acct.Inactive {
		return model.Account{}, apperr.ErrInactiveAccount.Withf("account %s is already inactive", n.acct.Code)
	}
	acct := n.acct
	acct.Inactive = true
	return r.replaceLocked(n, acct, persist)
}

func (r *Registry) replaceLocked(n *node, acct model.Account, persist PersistFunc) (model.Account, error) {
	if persist != nil {
		if err := persist(acct); err != nil {
			return model.Account{}, apperr.ErrCommitFailed.Wrap("persisting account "+acct.Code, err)
		}
	}
	n.acct = acct
	return acct, nil
}

// Active reports whether id names an account that accepts postings.
func (r *Registry) Active(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	return ok && !n.acct.Inactive
}

func (r *Registry) insert(a model.Account) {
	r.nodes[a.ID] = &node{acct: a}
	r.byCode[a.Code] = a.ID
	if a.ParentID != "" {
		p := r.nodes[a.ParentID]
		p.children = append(p.children, a.ID)
	}
}

// checkCode verifies that code is unused and extends the parent's code by
// exactly one alphabet symbol (or is a single symbol for a root).
func (r *Registry) checkCode(code string, parent *node) error {
	prefix := ""
	if parent != nil {
		prefix = parent.acct.Code
	}
	suffix, ok := strings.CutPrefix(code, prefix)
	if !ok || utf8.RuneCountInString(suffix) != 1 || !strings.Contains(CodeAlphabet, suffix) {
		if parent == nil {
			return apperr.ErrInvalidCode.Withf("root code %q must be one of %s", code, CodeAlphabet)
		}
		return apperr.ErrInvalidCode.Withf("code %q must be %q plus one symbol", code, prefix)
	}
	if _, taken := r.byCode[code]; taken {
		return apperr.ErrDuplicateCode.Withf("code %s already in use", code)
	}
	return nil
}

// nextCode returns the first free code under parent, or the first free root
// code when parent is nil.
func (r *Registry) nextCode(parent *node) (string, error) {
	prefix := ""
	if parent != nil {
		prefix = parent.acct.Code
	}
	for _, sym := range CodeAlphabet {
		candidate := prefix + string(sym)
		if _, taken := r.byCode[candidate]; !taken {
			return candidate, nil
		}
	}
	if parent == nil {
		return "", apperr.ErrCodeSpaceExhausted.Withf("all %d root codes are in use", len(CodeAlphabet))
	}
	return "", apperr.ErrCodeSpaceExhausted.Withf("account %s has no free child code", prefix)
}

// All returns all accounts ordered by code.
func (r *Registry) All() []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(*node) bool { return true })
}

func (r *Registry) sortedLocked(keep func(*node) bool) []model.Account {
	var result []model.Account
	for _, n := range r.nodes {
		if keep(n) {
			result = append(result, n.acct)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// Get returns an account by ID.
func (r *Registry) Get(id string) (model.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	if !ok {
		return model.Account{}, false
	}
	return n.acct, true
}

// GetByCode returns an account by its code.
func (r *Registry) GetByCode(code string) (model.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accountID, ok := r.byCode[strings.ToUpper(persian.Normalize(strings.TrimSpace(code)))]
	if !ok {
		return model.Account{}, false
	}
	return r.nodes[accountID].acct, true
}

// Exists reports whether an account ID exists.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[id]
	return ok
}

// ByType returns all accounts of the given type, ordered by code.
func (r *Registry) ByType(accountType model.AccountType) []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(n *node) bool { return n.acct.Type == accountType })
}

// Children returns the direct children of an account in creation order.
func (r *Registry) Children(id string) []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	if !ok {
		return nil
	}
	result := make([]model.Account, 0, len(n.children))
	for _, c := range n.children {
		result = append(result, r.nodes[c].acct)
	}
	return result
}

// Subtree returns the IDs of an account and all its descendants.
func (r *Registry) Subtree(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.nodes[id]; !ok {
		return nil
	}
	var ids []string
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, cur)
		stack = append(stack, r.nodes[cur].children...)
	}
	return ids
}

// InSubtree reports whether accountID is root or one of its descendants.
func (r *Registry) InSubtree(root, accountID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for cur := accountID; cur != ""; {
		if cur == root {
			return true
		}
		n, ok := r.nodes[cur]
		if !ok {
			return false
		}
		cur = n.acct.ParentID
	}
	return false
}

// Totals returns the posted sums for an account.
func (r *Registry) Totals(id string) (Totals, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	if !ok {
		return Totals{}, false
	}
	return n.totals, true
}

// Balance returns the account's subtree balance signed by its normal side.
func (r *Registry) Balance(id string) (model.Amount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	if !ok {
		return 0, apperr.ErrUnknownAccount.Withf("account %s not found", id)
	}
	return Signed(n.acct.Type, n.totals.SubtreeDebit, n.totals.SubtreeCredit), nil
}

// Signed returns debit and credit netted on the account type's normal side.
func Signed(t model.AccountType, debit, credit model.Amount) model.Amount {
	if t.NormalSide() == model.Debit {
		return debit - credit
	}
	return credit - debit
}

// Apply adds committed lines to the own totals of their accounts and the
// subtree totals of every ancestor. All lines are applied under one lock so
// readers never observe half an entry. If any line names an unknown account
// or would overflow a total, nothing is applied.
func (r *Registry) Apply(lines []model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged, err := r.stageLocked(lines)
	if err != nil {
		return err
	}
	for n, t := range staged {
		n.totals = t
	}
	return nil
}

// CheckApply reports the error Apply would return for lines without changing
// any totals.
func (r *Registry) CheckApply(lines []model.Transaction) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := r.stageLocked(lines)
	return err
}

func (r *Registry) stageLocked(lines []model.Transaction) (map[*node]Totals, error) {
	for _, l := range lines {
		if _, ok := r.nodes[l.AccountID]; !ok {
			return nil, apperr.ErrUnknownAccount.Withf("account %s not found", l.AccountID)
		}
	}

	staged := make(map[*node]Totals)
	get := func(n *node) Totals {
		if t, ok := staged[n]; ok {
			return t
		}
		return n.totals
	}
	overflow := func(n *node) error {
		return apperr.ErrInvalidLine.
			Withf("totals of account %s would exceed %s", n.acct.Code, model.MaxAmount).
			WithDetail("account", n.acct.Code)
	}

	for _, l := range lines {
		debit, credit := l.DebitCredit()
		n := r.nodes[l.AccountID]
		t := get(n)
		var okD, okC bool
		if t.OwnDebit, okD = t.OwnDebit.Add(debit); !okD {
			return nil, overflow(n)
		}
		if t.OwnCredit, okC = t.OwnCredit.Add(credit); !okC {
			return nil, overflow(n)
		}
		staged[n] = t

		for cur := n; cur != nil; {
			t := get(cur)
			if t.SubtreeDebit, okD = t.SubtreeDebit.Add(debit); !okD {
				return nil, overflow(cur)
			}
			if t.SubtreeCredit, okC = t.SubtreeCredit.Add(credit); !okC {
				return nil, overflow(cur)
			}
			staged[cur] = t
			if cur.acct.ParentID == "" {
				break
			}
			cur = r.nodes[cur.acct.ParentID]
		}
	}

	// Reports sum own totals across the whole chart, so the grand total
	// must fit as well.
	var grand Totals
	for _, n := range r.nodes {
		if n.acct.ParentID != "" {
			continue
		}
		t := get(n)
		var okD, okC bool
		grand.SubtreeDebit, okD = grand.SubtreeDebit.Add(t.SubtreeDebit)
		grand.SubtreeCredit, okC = grand.SubtreeCredit.Add(t.SubtreeCredit)
		if !okD || !okC {
			return nil, apperr.ErrInvalidLine.Withf("ledger totals would exceed %s", model.MaxAmount)
		}
	}
	return staged, nil
}

// Candidates returns active match candidates for the given account types,
// ordered by code. With no types, every active account is a candidate.
func (r *Registry) Candidates(types ...model.AccountType) []match.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accts := r.sortedLocked(func(n *node) bool {
		if n.acct.Inactive {
			return false
		}
		if len(types) == 0 {
			return true
		}
		for _, t := range types {
			if n.acct.Type == t {
				return true
			}
		}
		return false
	})
	result := make([]match.Candidate, len(accts))
	for i, a := range accts {
		result[i] = match.Candidate{ID: a.ID, Code: a.Code, Name: a.Name}
	}
	return result
}

// Counterparties returns the debtor and creditor accounts a voice command
// may name.
func (r *Registry) Counterparties() []match.Candidate {
	return r.Candidates(model.AccountTypeReceivable, model.AccountTypePayable)
}

// Resolve looks an account up by code or name. An exact code match is
// returned alone; otherwise every account is ranked by name similarity.
func (r *Registry) Resolve(query string) []match.Result {
	if a, ok := r.GetByCode(query); ok {
		return []match.Result{{
			Candidate: match.Candidate{ID: a.ID, Code: a.Code, Name: a.Name},
			Score:     1,
			Exact:     true,
		}}
	}
	return match.Rank(query, r.Candidates())
}

package index

import (
	"github.com/emmylua-go/luacore/ids"
	"github.com/emmylua-go/luacore/luatype"
)

// MemberKeyKind distinguishes the shapes a member key may take
// (spec.md §3 Member "key").
type MemberKeyKind int

const (
	KeyInteger MemberKeyKind = iota
	KeyName
	KeyExpr
	KeyNone
)

// MemberKey is the closed sum `Integer(i64) | Name(string) | Expr(Type)
// | None` spec.md §3/§9 describes.
type MemberKey struct {
	Kind MemberKeyKind
	Int  int64
	Name string
	Expr luatype.Type
}

func IntKey(i int64) MemberKey    { return MemberKey{Kind: KeyInteger, Int: i} }
func NameKey(n string) MemberKey  { return MemberKey{Kind: KeyName, Name: n} }
func ExprKey(t luatype.Type) MemberKey { return MemberKey{Kind: KeyExpr, Expr: t} }

// fastEqual reports exact equality for the Int/Name fast path only;
// Expr keys never compare equal here (they degrade to the linear
// check_type_compact scan documented in SPEC_FULL.md §9.1).
func (k MemberKey) fastEqual(other MemberKey) bool {
	if k.Kind != other.Kind {
		return false
	}
	switch k.Kind {
	case KeyInteger:
		return k.Int == other.Int
	case KeyName:
		return k.Name == other.Name
	case KeyNone:
		return true
	default:
		return false
	}
}

// Member is a field of a TypeDecl or table literal (spec.md §3
// "Member").
type Member struct {
	Id           ids.MemberId
	Owner        ids.OwnerId
	Key          MemberKey
	File         ids.FileId
	DeclaredType luatype.Type // defaults to luatype.Unknown
}

// MemberStore is the owner-keyed primary lookup structure spec.md §4.3
// calls "member_index.get_member_map(owner) -> map<key, member_id>",
// plus the Expr-key fallback list per owner for the fuzzy scan.
type MemberStore struct {
	fastByOwner map[ids.OwnerId]map[MemberKey]*Member
	exprByOwner map[ids.OwnerId][]*Member
	byId        map[ids.MemberId]*Member
	byFile      map[ids.FileId][]ids.MemberId
}

func NewMemberStore() *MemberStore {
	return &MemberStore{
		fastByOwner: make(map[ids.OwnerId]map[MemberKey]*Member),
		exprByOwner: make(map[ids.OwnerId][]*Member),
		byId:        make(map[ids.MemberId]*Member),
		byFile:      make(map[ids.FileId][]ids.MemberId),
	}
}

func (s *MemberStore) Add(m *Member) {
	s.byId[m.Id] = m
	s.byFile[m.File] = append(s.byFile[m.File], m.Id)
	if m.Key.Kind == KeyExpr {
		s.exprByOwner[m.Owner] = append(s.exprByOwner[m.Owner], m)
		return
	}
	bucket := s.fastByOwner[m.Owner]
	if bucket == nil {
		bucket = make(map[MemberKey]*Member)
		s.fastByOwner[m.Owner] = bucket
	}
	bucket[m.Key] = m
}

// GetMemberMap returns the owner's whole key->member map (spec.md §4.3
// `get_member_map`); Expr-keyed members are not included since they are
// not exactly-keyed.
func (s *MemberStore) GetMemberMap(owner ids.OwnerId) map[MemberKey]*Member {
	return s.fastByOwner[owner]
}

// ExprMembers returns owner's Expr-keyed members, for the linear
// check_type_compact fallback scan (spec.md §9 final bullet).
func (s *MemberStore) ExprMembers(owner ids.OwnerId) []*Member {
	return s.exprByOwner[owner]
}

// Get resolves a specific Member by id directly, used when a caller
// already holds a MemberId (e.g. a TypeDecl's AliasMembers list) rather
// than an owner+key pair to look up.
func (s *MemberStore) Get(id ids.MemberId) (*Member, bool) {
	m, ok := s.byId[id]
	return m, ok
}

// Lookup finds owner's member for key via the fast path only (no Expr
// fallback — callers needing the fuzzy Expr scan use ExprMembers plus
// their own check_type_compact call, since that requires the subtype
// package this leaf package must not import).
func (s *MemberStore) Lookup(owner ids.OwnerId, key MemberKey) (*Member, bool) {
	if bucket, ok := s.fastByOwner[owner]; ok {
		if m, ok := bucket[key]; ok {
			return m, true
		}
	}
	return nil, false
}

func (s *MemberStore) Remove(file ids.FileId) {
	for _, id := range s.byFile[file] {
		m, ok := s.byId[id]
		if !ok {
			continue
		}
		delete(s.byId, id)
		if m.Key.Kind == KeyExpr {
			s.exprByOwner[m.Owner] = removeMember(s.exprByOwner[m.Owner], m)
			continue
		}
		if bucket := s.fastByOwner[m.Owner]; bucket != nil {
			delete(bucket, m.Key)
			if len(bucket) == 0 {
				delete(s.fastByOwner, m.Owner)
			}
		}
	}
	delete(s.byFile, file)
}

func removeMember(list []*Member, target *Member) []*Member {
	out := list[:0]
	for _, m := range list {
		if m != target {
			out = append(out, m)
		}
	}
	return out
}

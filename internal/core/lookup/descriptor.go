package lookup

import (
	"fmt"
	"reflect"
	"strings"
)

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Constant は列挙定数の静的な宣言です。Description が空の場合は Name が説明として使われます。
type Constant[E integer] struct {
	Name        string
	Value       E
	Description string
}

// Descriptor は列挙型から導出したメンバー一覧を保持します。
type Descriptor struct {
	typeName string
	members  []Member
}

// Describe は列挙定数の宣言から Descriptor を生成します。
// メンバーは宣言順に並びます。E は宣言された型で、基底型が int32 である必要があります。
func Describe[E integer](consts ...Constant[E]) (*Descriptor, error) {
	typ := reflect.TypeFor[E]()
	if typ.Name() == "" || typ.PkgPath() == "" {
		return nil, fmt.Errorf("%w: %s is not a declared enumeration type", ErrInvalidEnumType, typ)
	}
	if typ.Kind() != reflect.Int32 {
		return nil, fmt.Errorf("%w: %s is backed by %s", ErrUnsupportedUnderlyingType, typ, typ.Kind())
	}

	members := make([]Member, 0, len(consts))
	for i, c := range consts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: %s constant #%d has no name", ErrInvalidEnumType, typ, i)
		}
		desc := c.Description
		if desc == "" {
			desc = name
		}
		members = append(members, Member{
			ID:          int32(c.Value),
			Name:        name,
			Description: desc,
		})
	}

	return &Descriptor{typeName: typ.String(), members: members}, nil
}

// MustDescribe は Describe のパニック版です。パッケージ変数の初期化に使います。
func MustDescribe[E integer](consts ...Constant[E]) *Descriptor {
	d, err := Describe(consts...)
	if err != nil {
		panic(err)
	}
	return d
}

// TypeName は列挙型の完全名を返します。
func (d *Descriptor) TypeName() string {
	if d == nil {
		return ""
	}
	return d.typeName
}

// Members は宣言順のメンバーのコピーを返します。
func (d *Descriptor) Members() []Member {
	if d == nil {
		return nil
	}
	out := make([]Member, len(d.members))
	copy(out, d.members)
	return out
}

// Lookup は ID に一致する最初のメンバーを返します。
func (d *Descriptor) Lookup(id int32) (Member, bool) {
	if d == nil {
		return Member{}, false
	}
	for _, m := range d.members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

package lookup

import "sort"

const (
	// MaxNameLength は Name 列の最大文字数です。
	MaxNameLength = 100
	// MaxDescriptionLength は Description 列の最大文字数です。
	MaxDescriptionLength = 100
)

// Member は列挙定数 1 件分の情報です。
type Member struct {
	ID          int32
	Name        string
	Description string
}

// Row はルックアップテーブルに永続化される行です。
type Row struct {
	ID          int32
	Name        string
	Description string
	Deleted     bool
}

// Table は列挙型と、それを写すルックアップテーブルの組です。
type Table struct {
	Name string
	Enum *Descriptor
}

// IDSet は永続化済みの主キー集合です。
type IDSet map[int32]struct{}

// NewIDSet は与えられた ID から IDSet を生成します。
func NewIDSet(ids ...int32) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has は id が集合に含まれるかを返します。
func (s IDSet) Has(id int32) bool {
	_, ok := s[id]
	return ok
}

// Add は id を集合に追加します。
func (s IDSet) Add(ids ...int32) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Sorted は昇順に並べた ID を返します。
func (s IDSet) Sorted() []int32 {
	ids := make([]int32, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func rowFromMember(m Member) Row {
	return Row{ID: m.ID, Name: m.Name, Description: m.Description}
}

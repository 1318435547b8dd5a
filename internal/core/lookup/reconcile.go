package lookup

import (
	"fmt"
	"unicode/utf8"
)

// Reconcile は existing に存在しないメンバーを行として宣言順に返します。
// 検証はすべてのメンバーに対して先に行われ、1 件でも不正があれば行は 1 件も返しません。
func Reconcile(existing IDSet, members []Member) ([]Row, error) {
	if err := validateMembers(members); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(members))
	for _, m := range members {
		if existing.Has(m.ID) {
			continue
		}
		rows = append(rows, rowFromMember(m))
	}
	return rows, nil
}

// Orphans は永続化済みだが列挙型に宣言されていない ID を昇順で返します。
// 行の更新や削除は行いません。
func Orphans(existing IDSet, members []Member) []int32 {
	declared := make(IDSet, len(members))
	for _, m := range members {
		declared.Add(m.ID)
	}

	var orphans []int32
	for _, id := range existing.Sorted() {
		if !declared.Has(id) {
			orphans = append(orphans, id)
		}
	}
	return orphans
}

// ValidateRow は行がテーブルの制約を満たすか検証します。
func ValidateRow(row Row) error {
	if row.ID < 1 {
		return fmt.Errorf("%w: %s = %d", ErrNonPositiveID, row.Name, row.ID)
	}
	if row.Name == "" || utf8.RuneCountInString(row.Name) > MaxNameLength {
		return fmt.Errorf("%w: id %d", ErrInvalidName, row.ID)
	}
	if utf8.RuneCountInString(row.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: id %d", ErrInvalidDescription, row.ID)
	}
	return nil
}

func validateMembers(members []Member) error {
	seen := make(map[int32]string, len(members))
	for _, m := range members {
		if err := ValidateRow(rowFromMember(m)); err != nil {
			return err
		}
		if prev, ok := seen[m.ID]; ok {
			return fmt.Errorf("%w: %s and %s share %d", ErrDuplicateID, prev, m.Name, m.ID)
		}
		seen[m.ID] = m.Name
	}
	return nil
}

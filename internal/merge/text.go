package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// HunkKind тип блока изменений
type HunkKind int

// HunkKind константы
const (
	Addition HunkKind = iota
	Deletion
	Modification
)

func (k HunkKind) String() string {
	switch k {
	case Addition:
		return "addition"
	case Deletion:
		return "deletion"
	default:
		return "modification"
	}
}

// Hunk непрерывный блок изменений относительно base.
// Строки base в диапазоне [Start, End) заменяются на Lines. Для Addition Start == End.
type Hunk struct {
	Lines []string
	Start int
	End   int
	Kind  HunkKind
}

func (h Hunk) equal(o Hunk) bool {
	if h.Start != o.Start || h.End != o.End || len(h.Lines) != len(o.Lines) {
		return false
	}
	for i := range h.Lines {
		if h.Lines[i] != o.Lines[i] {
			return false
		}
	}
	return true
}

// overlaps сообщает, затрагивают ли блоки одну область base.
// Вставка на границе измененного диапазона и две вставки в одну точку тоже пересекаются.
func (h Hunk) overlaps(o Hunk) bool {
	switch {
	case h.Start == h.End && o.Start == o.End:
		return h.Start == o.Start
	case h.Start == h.End:
		return o.Start <= h.Start && h.Start <= o.End
	case o.Start == o.End:
		return h.Start <= o.Start && o.Start <= h.End
	default:
		return h.Start < o.End && o.Start < h.End
	}
}

// splitLines разбивает текст на строки, сохраняя переводы строк
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineCount число строк в том же смысле, что и splitLines
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// DiffLines строит построчный diff base -> other (кратчайший сценарий правки, эквивалентный LCS)
// и группирует изменения в блоки. Результат не зависит от времени выполнения:
// таймаут diffmatchpatch отключен, стоимость ограничивает LineMerge.MaxLines.
func DiffLines(base, other string) []Hunk {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	chars1, chars2, lineArray := dmp.DiffLinesToChars(base, other)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var (
		hunks []Hunk
		cur   *Hunk
		pos   int
	)
	flush := func() {
		if cur == nil {
			return
		}
		switch {
		case cur.Start == cur.End:
			cur.Kind = Addition
		case len(cur.Lines) == 0:
			cur.Kind = Deletion
		default:
			cur.Kind = Modification
		}
		hunks = append(hunks, *cur)
		cur = nil
	}

	for _, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(lines)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &Hunk{Start: pos, End: pos}
			}
			pos += len(lines)
			cur.End = pos
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &Hunk{Start: pos, End: pos}
			}
			cur.Lines = append(cur.Lines, lines...)
		}
	}
	flush()
	return hunks
}

// MergeLines сливает изменения base -> local и base -> server.
// Непересекающиеся блоки применяются к base в обратном порядке позиций;
// одинаковые блоки обеих сторон применяются один раз; пересечение - ErrOverlappingHunks.
func MergeLines(base, local, server string) (string, error) {
	localHunks := DiffLines(base, local)
	serverHunks := DiffLines(base, server)

	all := make([]Hunk, 0, len(localHunks)+len(serverHunks))
	all = append(all, localHunks...)
	for _, sh := range serverHunks {
		dup := false
		for _, lh := range localHunks {
			if lh.equal(sh) {
				dup = true
				break
			}
			if lh.overlaps(sh) {
				return "", fmt.Errorf("%w: local lines %d-%d, server lines %d-%d",
					ErrOverlappingHunks, lh.Start+1, lh.End, sh.Start+1, sh.End)
			}
		}
		if !dup {
			all = append(all, sh)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start > all[j].Start
		}
		return all[i].End > all[j].End
	})

	lines := splitLines(base)
	for _, h := range all {
		next := make([]string, 0, len(lines)-(h.End-h.Start)+len(h.Lines))
		next = append(next, lines[:h.Start]...)
		next = append(next, h.Lines...)
		next = append(next, lines[h.End:]...)
		lines = next
	}
	return strings.Join(lines, ""), nil
}

// LineMerge построчное трехстороннее слияние длинных текстов.
// Без base поле сливается как TextExtension.
type LineMerge struct {
	MaxBytes int
	MaxLines int
}

// Name имя стратегии
func (LineMerge) Name() string { return NameLineMerge }

// Merge сливает тексты построчно
func (m LineMerge) Merge(in Input) (Outcome, error) {
	if err := requireBoth(in); err != nil {
		return Outcome{}, err
	}
	base, ok := in.Base.(string)
	if !in.ThreeWay || !in.HasBase || !ok {
		return TextExtension{}.Merge(in)
	}
	l, lok := in.Local.(string)
	s, sok := in.Server.(string)
	if !lok || !sok {
		return Outcome{}, Unresolvable(in.Field, "line_merge expects string values", nil)
	}

	limit := m.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxTextBytes
	}
	if len(base) > limit || len(l) > limit || len(s) > limit {
		return Outcome{}, Unresolvable(in.Field, fmt.Sprintf("text exceeds %d bytes", limit), ErrTextTooLarge)
	}

	maxLines := m.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxTextLines
	}
	if lineCount(base) > maxLines || lineCount(l) > maxLines || lineCount(s) > maxLines {
		return Outcome{}, Unresolvable(in.Field, fmt.Sprintf("text exceeds %d lines", maxLines), ErrTextTooLarge)
	}

	merged, err := MergeLines(base, l, s)
	if err != nil {
		return Outcome{}, Unresolvable(in.Field, err.Error(), ErrOverlappingHunks)
	}
	return Outcome{Value: merged, Reason: "line-level merge"}, nil
}

package paging

import (
	"reflect"
	"testing"
)

func TestPageable_Normalize(t *testing.T) {
	tests := []struct {
		in   Pageable
		want Pageable
	}{
		{in: Pageable{}, want: Pageable{Page: 0, Size: DefaultSize}},
		{in: Pageable{Page: -3, Size: 5}, want: Pageable{Page: 0, Size: 5}},
		{in: Pageable{Page: 2, Size: 5000}, want: Pageable{Page: 2, Size: MaxSize}},
		{in: Pageable{Page: 1, Size: 1}, want: Pageable{Page: 1, Size: 1}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseSort(t *testing.T) {
	got := ParseSort([]string{"timestamp,desc", "id", "", "type,ASC", " ,desc"})
	want := []Order{
		{Property: "timestamp", Desc: true},
		{Property: "id"},
		{Property: "type"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSort = %+v, want %+v", got, want)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, Pageable{Page: 1, Size: 2}, 5)
	if p.TotalPages != 3 || p.TotalElements != 5 || p.Page != 1 || p.Size != 2 {
		t.Fatalf("unexpected page: %+v", p)
	}
	empty := NewPage[int](nil, Pageable{}, 0)
	if empty.Items == nil || empty.TotalPages != 0 || empty.Size != DefaultSize {
		t.Fatalf("unexpected empty page: %+v", empty)
	}
}

func TestMap(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, Pageable{Size: 3}, 9)
	out := Map(p, func(v int) string { return string(rune('a' + v - 1)) })
	if !reflect.DeepEqual(out.Items, []string{"a", "b", "c"}) || out.TotalPages != 3 {
		t.Fatalf("unexpected mapped page: %+v", out)
	}
}

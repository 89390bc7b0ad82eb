package common

import "bytes"

// String is the VARCHAR/BLOB cell representation. The teacher backs this
// with an unsafe.Pointer into a manually managed arena because its vectors
// live in buffer-manager-owned pages; this module has no buffer manager, so
// the bytes live in a plain Go string and the GC owns them.
type String struct {
	Val string
}

func StringFromBytes(b []byte) String {
	return String{Val: string(b)}
}

func (s String) DataSlice() []byte {
	return []byte(s.Val)
}

func (s String) String() string {
	return s.Val
}

func (s String) Equal(o String) bool {
	return s.Val == o.Val
}

func (s String) Less(o String) bool {
	return bytes.Compare([]byte(s.Val), []byte(o.Val)) < 0
}

func (s String) Length() int {
	return len(s.Val)
}

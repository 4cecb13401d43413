package gpucmd

import "iter"

// CommandBuffer is the ordered, append-only list of records of one
// recording session.
//
// CommandBuffer is not safe for concurrent use.
type CommandBuffer struct {
	cmds []Command
}

// Append adds cmd at the end of the buffer.
func (b *CommandBuffer) Append(cmd Command) {
	b.cmds = append(b.cmds, cmd)
}

// Back returns the last record, or nil if the buffer is empty.
func (b *CommandBuffer) Back() Command {
	if len(b.cmds) == 0 {
		return nil
	}
	return b.cmds[len(b.cmds)-1]
}

// RemoveLast drops the last record. It undoes an Append whose record turned
// out to be unnecessary; no reference to the record may have escaped.
func (b *CommandBuffer) RemoveLast() {
	assert(len(b.cmds) > 0, "RemoveLast on empty command buffer")
	if len(b.cmds) == 0 {
		return
	}
	b.cmds[len(b.cmds)-1] = nil
	b.cmds = b.cmds[:len(b.cmds)-1]
}

// Len returns the number of records.
func (b *CommandBuffer) Len() int {
	return len(b.cmds)
}

// Empty reports whether the buffer holds no records.
func (b *CommandBuffer) Empty() bool {
	return len(b.cmds) == 0
}

// At returns the i-th record.
func (b *CommandBuffer) At(i int) Command {
	return b.cmds[i]
}

// All iterates the records in recorded order.
func (b *CommandBuffer) All() iter.Seq2[int, Command] {
	return func(yield func(int, Command) bool) {
		for i, cmd := range b.cmds {
			if !yield(i, cmd) {
				return
			}
		}
	}
}

// Reset drops every record. The backing array is kept for reuse.
func (b *CommandBuffer) Reset() {
	clear(b.cmds)
	b.cmds = b.cmds[:0]
}

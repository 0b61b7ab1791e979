package main

import "testing"

func TestCacheIndex(t *testing.T) {
	c, err := NewCache(2)
	if err != nil {
		t.Fatal(err)
	}
	for _, addr := range []uint32{0, 1, 2, 3, 4, 5, 100, 1000} {
		want := addr % 4
		if got := c.index(addr); got != want {
			t.Errorf("index(%d) = %d, want %d", addr, got, want)
		}
	}
}

func TestCacheOutOfRangeBits(t *testing.T) {
	if _, err := NewCache(0); err == nil {
		t.Error("expected error for cache-bits 0")
	}
	if _, err := NewCache(7); err == nil {
		t.Error("expected error for cache-bits 7")
	}
}

func TestInsertThenLookup(t *testing.T) {
	c, _ := NewCache(4)
	c.insert(5, 42, false)
	v, ok := c.lookup(5)
	if !ok || v != 42 {
		t.Errorf("lookup(5) = (%d,%v), want (42,true)", v, ok)
	}
}

func TestInsertCoalescesSameAddress(t *testing.T) {
	c, _ := NewCache(4)
	c.insert(5, 1, true)
	evicted, valid := c.insert(5, 2, true)
	if valid {
		t.Errorf("expected no eviction when coalescing same address, got %+v", evicted)
	}
	v, ok := c.lookup(5)
	if !ok || v != 2 {
		t.Errorf("lookup(5) = (%d,%v), want (2,true)", v, ok)
	}
}

func TestInsertEvictsDirtyEntry(t *testing.T) {
	c, _ := NewCache(1) // 2 slots: addr 0 and addr 2 both map to slot 0
	c.insert(0, 7, true)
	evicted, valid := c.insert(2, 9, false)
	if !valid {
		t.Fatal("expected eviction of dirty entry at address 0")
	}
	if evicted.address != 0 || evicted.operand != 7 {
		t.Errorf("evicted = %+v, want {address:0 operand:7}", evicted)
	}
}

func TestInsertNoOpSameValue(t *testing.T) {
	c, _ := NewCache(4)
	c.insert(5, 42, true)
	evicted, valid := c.insert(5, 42, true)
	if valid || evicted != (evictedWord{}) {
		t.Errorf("expected no-op on identical (addr,operand), got evicted=%+v valid=%v", evicted, valid)
	}
}

func TestWillOverwrite(t *testing.T) {
	c, _ := NewCache(2)
	if c.willOverwrite(1) {
		t.Error("empty slot should not report willOverwrite")
	}
	c.insert(1, 10, false)
	if c.willOverwrite(1) {
		t.Error("same address should not report willOverwrite")
	}
	if !c.willOverwrite(5) { // 5 % 4 == 1, same slot, different address
		t.Error("different address mapping to same slot should report willOverwrite")
	}
}

func TestWritebackLittleEndian(t *testing.T) {
	ram := make([]byte, 16)
	w := evictedWord{address: 1, operand: 0x11223344}
	writeback(ram, w, 5, 4) // instructionSize=5 (1 opcode + 4 operand bytes)
	off := 1*5 + 1
	got := decodeOperandLE(ram[off:off+4], 4)
	if got != 0x11223344 {
		t.Errorf("writeback wrote %#x, want %#x", got, 0x11223344)
	}
}

func TestPopulateOrReadHit(t *testing.T) {
	c, _ := NewCache(4)
	c.insert(3, 99, false)
	ram := make([]byte, 20)
	v, err := c.populateOrRead(3, ram, 2, 1)
	if err != nil || v != 99 {
		t.Errorf("populateOrRead hit = (%d,%v), want (99,nil)", v, err)
	}
}

func TestPopulateOrReadMissFromDataCell(t *testing.T) {
	c, _ := NewCache(4)
	ram := make([]byte, 10)
	ram[0] = opNOP // data marker
	ram[1] = 7
	v, err := c.populateOrRead(0, ram, 2, 1)
	if err != nil || v != 7 {
		t.Errorf("populateOrRead miss = (%d,%v), want (7,nil)", v, err)
	}
}

func TestPopulateOrReadNonDataFails(t *testing.T) {
	c, _ := NewCache(4)
	ram := make([]byte, 10)
	ram[0] = opStp
	if _, err := c.populateOrRead(0, ram, 2, 1); err == nil {
		t.Error("expected error dereferencing non-data cell")
	}
}

func TestFlushAllOnlyDirty(t *testing.T) {
	c, _ := NewCache(2)
	ram := make([]byte, 32)
	offClean := 0*4 + 1
	encodeOperandLE(ram[offClean:offClean+2], 77, 2) // marker: untouched RAM value
	c.insert(0, 5, false)                            // clean: must not overwrite marker
	c.insert(1, 9, true)                              // dirty: must be written back
	c.flushAll(ram, 4, 2)

	offDirty := 1*4 + 1
	if decodeOperandLE(ram[offClean:offClean+2], 2) != 77 {
		t.Error("flushAll must not write back a clean entry")
	}
	if decodeOperandLE(ram[offDirty:offDirty+2], 2) != 9 {
		t.Error("flushAll must write back a dirty entry")
	}
	for _, e := range c.entries {
		if e != 0 {
			t.Error("flushAll must reset entries to zero")
		}
	}
}

package intakelog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:   testTime,
		Source:      "voice",
		Input:       "پرداخت ۵۰۰ هزار تومان به علی‌آقا, بابت اجاره",
		Outcome:     OutcomeCommitted,
		EntryNumber: 7,
		Detail:      "JE-000007",
	}
}

func TestAppend_NewFileAndExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Source = "ocr"
	e2.Outcome = OutcomePartial
	e2.EntryNumber = 0
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, testEntry(), entries[0])
	assert.Equal(t, "ocr", entries[1].Source)
	assert.Equal(t, int64(0), entries[1].EntryNumber)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "intake-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(testEntry())
	require.Len(t, row, 6)
	assert.Equal(t, "2025-01-15T10:30:00Z", row[0])
	assert.Equal(t, "7", row[4])

	e := testEntry()
	e.EntryNumber = 0
	assert.Empty(t, MarshalEntry(e)[4])
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 6 fields")

	row := MarshalEntry(testEntry())
	row[4] = "x"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing entry number")
}

func TestLog_RecordStampsAndSerializes(t *testing.T) {
	dir := t.TempDir()
	l := New(dir).WithClock(func() time.Time { return testTime })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Record(Entry{Source: "voice", Input: "x", Outcome: OutcomeRejected}))
		}()
	}
	wg.Wait()

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 20)
	for _, e := range entries {
		assert.True(t, testTime.Equal(e.Timestamp))
	}
}

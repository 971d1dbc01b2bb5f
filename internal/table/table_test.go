package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type patientRow struct {
	ID   int
	Name string
	Age  int
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestValuePrecedenceCellWins(t *testing.T) {
	t.Parallel()

	// A column carrying every strategy at once must use Cell and ignore
	// the rest, including the field key it started out with.
	col := Column[patientRow]{
		Header:     "Name",
		Key:        "Name",
		Accessor:   Func(func(r patientRow) any { return "accessor" }),
		AccessorFn: func(r patientRow) any { return "accessorFn" },
		Cell:       func(r patientRow) string { return strings.ToUpper(r.Name) },
	}
	require.Equal(t, "ANN", col.Value(patientRow{ID: 1, Name: "Ann"}))
}

func TestValuePrecedenceOrder(t *testing.T) {
	t.Parallel()

	row := patientRow{ID: 7, Name: "Bo", Age: 44}

	// key beats both accessor forms and the secondary function
	col := Column[patientRow]{
		Key:        "Name",
		Accessor:   Func(func(r patientRow) any { return "fn" }),
		AccessorFn: func(r patientRow) any { return "fn2" },
	}
	require.Equal(t, "Bo", col.Value(row))

	// accessor function beats accessor field name and the secondary function
	col = Column[patientRow]{
		Accessor:   Func(func(r patientRow) any { return r.Age }),
		AccessorFn: func(r patientRow) any { return "fn2" },
	}
	require.Equal(t, 44, col.Value(row))

	// accessor field name beats the secondary function
	col = Column[patientRow]{
		Accessor:   Field[patientRow]("Name"),
		AccessorFn: func(r patientRow) any { return "fn2" },
	}
	require.Equal(t, "Bo", col.Value(row))

	// secondary function alone
	col = Column[patientRow]{AccessorFn: func(r patientRow) any { return r.ID }}
	require.Equal(t, 7, col.Value(row))
}

func TestValueNoStrategyIsNil(t *testing.T) {
	t.Parallel()

	col := Column[patientRow]{Header: "Blank"}
	require.Nil(t, col.Value(patientRow{ID: 1, Name: "Ann"}))

	tbl := Table[patientRow]{
		Columns:  []Column[patientRow]{col},
		Rows:     []patientRow{{ID: 1, Name: "Ann"}},
		KeyField: "ID",
	}
	require.NotPanics(t, func() { tbl.Render(0) })
}

func TestValueMissingFieldIsNil(t *testing.T) {
	t.Parallel()

	col := Column[patientRow]{Key: "NoSuchField"}
	require.Nil(t, col.Value(patientRow{ID: 1, Name: "Ann"}))
}

func TestValueMapRows(t *testing.T) {
	t.Parallel()

	col := Column[map[string]any]{Key: "name"}
	require.Equal(t, "Ann", col.Value(map[string]any{"id": 1, "name": "Ann"}))
	// row without the key renders blank, not an error
	require.Nil(t, col.Value(map[string]any{"id": 2}))
}

func TestValuePointerRows(t *testing.T) {
	t.Parallel()

	col := Column[*patientRow]{Key: "Name"}
	require.Equal(t, "Ann", col.Value(&patientRow{Name: "Ann"}))
	require.Nil(t, col.Value(nil))
}

func TestStateMachine(t *testing.T) {
	t.Parallel()

	rows := []patientRow{{ID: 1, Name: "Ann"}}
	cols := []Column[patientRow]{{Header: "Name", Key: "Name"}}

	// loading wins even with rows present
	tbl := Table[patientRow]{Columns: cols, Rows: rows, KeyField: "ID", Loading: true}
	require.Equal(t, StateLoading, tbl.State())
	require.Contains(t, tbl.Render(0), "loading")
	require.NotContains(t, tbl.Render(0), "Ann")

	// empty with substitute content: verbatim, no table structure
	tbl = Table[patientRow]{Columns: cols, KeyField: "ID", EmptyState: "No patients yet."}
	require.Equal(t, StateEmpty, tbl.State())
	require.Equal(t, "No patients yet.", tbl.Render(0))

	// empty without substitute content: header, zero body rows
	tbl = Table[patientRow]{Columns: cols, KeyField: "ID"}
	require.Equal(t, StatePopulated, tbl.State())
	out := tbl.Render(0)
	require.Len(t, lines(out), 1)
	require.Contains(t, out, "Name")
}

func TestRenderPreservesOrder(t *testing.T) {
	t.Parallel()

	rows := []patientRow{
		{ID: 3, Name: "Cara"},
		{ID: 1, Name: "Ann"},
		{ID: 2, Name: "Bo"},
	}
	tbl := Table[patientRow]{
		Columns: []Column[patientRow]{
			{Header: "Name", Key: "Name"},
			{Header: "Age", Accessor: Func(func(r patientRow) any { return r.Age })},
		},
		Rows:     rows,
		KeyField: "ID",
	}
	out := lines(tbl.Render(0))
	require.Len(t, out, 4)
	require.Contains(t, out[1], "Cara")
	require.Contains(t, out[2], "Ann")
	require.Contains(t, out[3], "Bo")

	// column order is display order
	header := out[0]
	require.Less(t, strings.Index(header, "Name"), strings.Index(header, "Age"))
}

func TestRenderKeyedScenario(t *testing.T) {
	t.Parallel()

	rows := []patientRow{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bo"}}
	tbl := Table[patientRow]{
		Columns:  []Column[patientRow]{{Header: "Name", Key: "Name"}},
		Rows:     rows,
		KeyField: "ID",
	}
	out := lines(tbl.Render(0))
	require.Len(t, out, 3)
	require.Contains(t, out[1], "Ann")
	require.Contains(t, out[2], "Bo")
	require.Equal(t, 1, tbl.RowID(rows[0]))
	require.Equal(t, 2, tbl.RowID(rows[1]))
}

func TestRowIDMissingKeyField(t *testing.T) {
	t.Parallel()

	tbl := Table[patientRow]{KeyField: "Nope"}
	require.Nil(t, tbl.RowID(patientRow{ID: 1}))
}

func TestCellRenderBeatsKeyInOutput(t *testing.T) {
	t.Parallel()

	tbl := Table[patientRow]{
		Columns: []Column[patientRow]{{
			Header: "Name",
			Key:    "Name",
			Cell:   func(r patientRow) string { return strings.ToUpper(r.Name) },
		}},
		Rows:     []patientRow{{ID: 1, Name: "Ann"}},
		KeyField: "ID",
	}
	out := tbl.Render(0)
	require.Contains(t, out, "ANN")
	require.NotContains(t, lines(out)[1], "Ann")
}

func TestRenderTruncatesToWidth(t *testing.T) {
	t.Parallel()

	tbl := Table[patientRow]{
		Columns: []Column[patientRow]{
			{Header: "Name", Key: "Name"},
			{Header: "Age", Accessor: Func(func(r patientRow) any { return r.Age })},
		},
		Rows:     []patientRow{{ID: 1, Name: "A very long patient name that will not fit", Age: 30}},
		KeyField: "ID",
	}
	out := tbl.Render(20)
	for _, line := range lines(out) {
		require.LessOrEqual(t, visibleWidth(line), 20)
	}
}

func visibleWidth(line string) int {
	// strip the minimal SGR sequences the header style may emit
	for {
		i := strings.IndexByte(line, 0x1b)
		if i < 0 {
			return len([]rune(line))
		}
		j := strings.IndexByte(line[i:], 'm')
		if j < 0 {
			return len([]rune(line[:i]))
		}
		line = line[:i] + line[i+j+1:]
	}
}

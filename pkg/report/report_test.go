package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/ifctakeoff/pkg/ifc"
	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

// One pipe segment and one duct bend; the valve has no size.
const scenarioIFC = `ISO-10303-21;
HEADER;
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPIPESEGMENT('a',$,'Putki',$,$,$,$,$,$);
#2=IFCPROPERTYSINGLEVALUE('Size',$,IFCLABEL('15'),$);
#3=IFCPROPERTYSINGLEVALUE('Length',$,IFCLENGTHMEASURE(2500.),$);
#4=IFCPROPERTYSET('b',$,'Dimensions',$,(#2,#3));
#5=IFCRELDEFINESBYPROPERTIES('c',$,$,$,(#1),#4);
#10=IFCDUCTFITTING('d',$,'Kulma',$,$,$,$,$,.BEND.);
#11=IFCPROPERTYSINGLEVALUE('Size',$,IFCLABEL('160'),$);
#12=IFCPROPERTYSINGLEVALUE('Angle',$,IFCLABEL('90'),$);
#13=IFCPROPERTYSET('e',$,'Dimensions',$,(#11,#12));
#14=IFCRELDEFINESBYPROPERTIES('f',$,$,$,(#10),#13);
#20=IFCVALVE('g',$,'Venttiili',$,$,$,$,$,$);
ENDSEC;
END-ISO-10303-21;
`

func scenarioResults(t *testing.T) []takeoff.Result {
	t.Helper()

	model, err := ifc.Read(strings.NewReader(scenarioIFC))
	require.NoError(t, err)

	segment := takeoff.Spec{
		SizePset: "Dimensions", SizeProperty: "Size",
		LengthPset: "Dimensions", LengthProperty: "Length",
	}
	part := takeoff.Spec{
		SizePset: "Dimensions", SizeProperty: "Size",
		AnglePset: "Dimensions", AngleProperty: "Angle",
	}

	results, err := takeoff.Run(takeoff.NewModelSource(model), takeoff.Specs{
		takeoff.PipeSegments.Key: segment,
		takeoff.DuctSegments.Key: segment,
		takeoff.DuctParts.Key:    part,
		takeoff.PipeParts.Key:    part,
	})
	require.NoError(t, err)
	return results
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scenarioResults(t), DefaultDelimiter))

	want := "Type;Size;Quantity;Unit\n" +
		"Putki;15;2.50;m\n" +
		"Kulma 90;160;1;kpl\n" +
		"Venttiili;;1;kpl\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVQuotesDelimiter(t *testing.T) {
	results := scenarioResults(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results, ','))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Type,Size,Quantity,Unit", lines[0])
	assert.Equal(t, "Putki,15,2.50,m", lines[1])
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	require.NoError(t, ExportCSV(path, scenarioResults(t), DefaultDelimiter))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Putki;15;2.50;m\n")
	assert.Contains(t, string(data), "Kulma 90;160;1;kpl\n")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestExportCSVFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultFile)

	err := ExportCSV(path, scenarioResults(t), DefaultDelimiter)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportCSVInvalidDelimiter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	require.Error(t, ExportCSV(path, scenarioResults(t), '"'))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConsolePrint(t *testing.T) {
	color.NoColor = true

	results := scenarioResults(t)

	var buf bytes.Buffer
	console := NewConsole(&buf)
	for _, r := range results {
		require.NoError(t, console.Print(r.Category, r.Table))
	}

	want := "Pipes\n" +
		"Putki\n" +
		"  DN 15: 2.50 m\n" +
		"Ducts\n" +
		"  (none)\n" +
		"Duct parts\n" +
		"Kulma 90\n" +
		"  Size 160: 1 kpl\n" +
		"Pipe parts\n" +
		"Venttiili\n" +
		"  DN undefined: 1 kpl\n"
	assert.Equal(t, want, buf.String())
}

func TestSummary(t *testing.T) {
	out := Summary(scenarioResults(t))

	for _, want := range []string{"Pipes", "Putki", "2.50", "Kulma 90", "Total", "3 buckets"} {
		assert.Contains(t, out, want)
	}
}

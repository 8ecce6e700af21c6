package rf2io

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/rf2/archive"
	"github.com/gofhir/rf2/model"
)

// Fixture dimensions: every description has exactly one language row.
const (
	fixtureConcepts     = 104
	fixtureDescriptions = 352
	fixtureMembers      = 35

	fixtureDefinition = "Concepts representing clinical findings recorded in the emergency department"

	sourceModule      = "900000000000207008"
	translationModule = "450829007"
	languageRefset    = "450828004"
	simpleRefset      = "723264001"
)

const (
	descriptionHeader = "id\teffectiveTime\tactive\tmoduleId\tconceptId\tlanguageCode\ttypeId\tterm\tcaseSignificanceId"
	languageHeader    = "id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId\tacceptabilityId"
	simpleHeader      = "id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId"
	simpleMapHeader   = "id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId\tmapTarget"
	definitionHeader  = "id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId\tdefinition"

	descriptionEntry = "SnomedCT_Translation/Snapshot/Terminology/sct2_Description_Snapshot-es_INT_20240131.txt"
	languageEntry    = "SnomedCT_Translation/Snapshot/Refset/Language/der2_cRefset_LanguageSnapshot-es_INT_20240131.txt"
)

func conceptID(i int) string {
	return fmt.Sprintf("%d", 10000000+i*100)
}

func descriptionID(i int) string {
	return fmt.Sprintf("%d", 50000000+i*10)
}

func memberID(kind string, i int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s-%d", kind, i))).String()
}

// lines joins rows with CRLF after a header.
func lines(header string, rows []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\r\n")
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\r\n")
	}
	return b.String()
}

// descriptionRows returns the fixture's Description rows. Descriptions are
// spread round-robin over the concepts, so concepts recur throughout the file.
func descriptionRows() []string {
	rows := make([]string, 0, fixtureDescriptions)
	for i := 0; i < fixtureDescriptions; i++ {
		active := "1"
		if i%7 == 0 {
			active = "0"
		}
		rows = append(rows, strings.Join([]string{
			descriptionID(i), "20200131", active, sourceModule,
			conceptID(i % fixtureConcepts), "es", "900000000000013009",
			fmt.Sprintf("término %d", i), "900000000000448009",
		}, "\t"))
	}
	return rows
}

// languageRows returns one language row per description, in reverse order.
func languageRows() []string {
	rows := make([]string, 0, fixtureDescriptions)
	for i := fixtureDescriptions - 1; i >= 0; i-- {
		rows = append(rows, strings.Join([]string{
			memberID("lang", i), "20200131", "1", sourceModule,
			languageRefset, descriptionID(i), "900000000000548007",
		}, "\t"))
	}
	return rows
}

func simpleRows() []string {
	rows := make([]string, 0, fixtureMembers)
	for i := 0; i < fixtureMembers; i++ {
		rows = append(rows, strings.Join([]string{
			memberID("simple", i), "20210731", "1", sourceModule, simpleRefset, conceptID(i),
		}, "\t"))
	}
	return rows
}

type fixtureEntry struct {
	name    string
	content string
}

func buildZip(t *testing.T, entries ...fixtureEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := archive.NewZipWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func translationBundle(t *testing.T) []byte {
	t.Helper()
	return buildZip(t,
		fixtureEntry{descriptionEntry, lines(descriptionHeader, descriptionRows())},
		fixtureEntry{languageEntry, lines(languageHeader, languageRows())},
	)
}

func newTranslation() *model.Translation {
	return &model.Translation{
		Name:             "Spanish edition",
		Language:         "es",
		Version:          "20240131",
		Module:           translationModule,
		LanguageRefsetID: languageRefset,
	}
}

func newRefset() *model.Refset {
	return &model.Refset{
		Name:               "Emergency findings",
		TerminologyID:      simpleRefset,
		Version:            "20240131",
		Module:             translationModule,
		Definition:         fixtureDefinition,
		DefinitionMemberID: memberID("definition", 0),
	}
}

// entryText returns the content of the named entry of a zip.
func entryText(t *testing.T, data []byte, token string) (string, string) {
	t.Helper()
	a, err := archive.OpenBytes(data)
	require.NoError(t, err)
	defer a.Close()

	matches := archive.Select(a, token)
	require.Len(t, matches, 1, "entries matching %s", token)

	rc, err := matches[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	return matches[0].Name, buf.String()
}

// crlfLines splits CRLF-terminated text into lines.
func crlfLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n")
}

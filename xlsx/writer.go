package xlsx

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/adnsv/srw/xml"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

const (
	nsMain         = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsDocRels      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels      = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Style indices fixed by the styles part.
const (
	styleGeneral  = 0 // default numeric format
	styleDate     = 1 // built-in numFmtId 14
	styleDateTime = 2 // built-in numFmtId 22
)

// partWriter serializes every package part of one finalized workbook
// into a Storage, tracking relationships and content types as parts
// are produced.
type partWriter struct {
	out Storage
	wb  *Workbook

	lastGlobalId   int
	lastWorkbookId int

	globalRels          map[string]relInfo // maps id to absolute path
	workbookRels        map[string]relInfo
	defaultContentTypes map[string]string // maps path extension to content-type
	partContentTypes    map[string]string // maps part name to content-type
}

type relInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

func newPartWriter(out Storage, wb *Workbook) *partWriter {
	pw := &partWriter{
		out: out,
		wb:  wb,

		globalRels:          map[string]relInfo{},
		workbookRels:        map[string]relInfo{},
		defaultContentTypes: map[string]string{},
		partContentTypes:    map[string]string{},
	}

	pw.defaultContentTypes["xml"] = "application/xml"
	pw.defaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return pw
}

func (pw *partWriter) nextGlobalID() (int, string) {
	pw.lastGlobalId++
	return pw.lastGlobalId, fmt.Sprintf("rId%d", pw.lastGlobalId)
}

func (pw *partWriter) nextWorkbookID() (int, string) {
	pw.lastWorkbookId++
	return pw.lastWorkbookId, fmt.Sprintf("rId%d", pw.lastWorkbookId)
}

func (pw *partWriter) emit(abspath string, blob []byte) error {
	return ioErr("write "+abspath, pw.out.WriteBlob(abspath, blob))
}

// writeAll serializes every part in a fixed order, so two runs over the
// same workbook content produce byte-identical part sequences.
func (pw *partWriter) writeAll() error {
	var err error

	err = pw.writeWorkbook()
	if err != nil {
		return err
	}

	err = pw.writeStyles()
	if err != nil {
		return err
	}

	if pw.wb.shared.UniqueCount() > 0 {
		err = pw.writeSharedStrings()
		if err != nil {
			return err
		}
	}

	if pw.wb.hasFormulas() {
		err = pw.writeCalcChain()
		if err != nil {
			return err
		}
	}

	err = pw.writeCoreProperties()
	if err != nil {
		return err
	}
	err = pw.writeExtendedProperties(pw.wb.AppName)
	if err != nil {
		return err
	}

	err = pw.writeRels("/xl/_rels/workbook.xml.rels", pw.workbookRels)
	if err != nil {
		return err
	}

	err = pw.writeRels("/_rels/.rels", pw.globalRels)
	if err != nil {
		return err
	}

	return pw.writeContentTypes()
}

func (pw *partWriter) writeWorkbook() error {
	_, rid := pw.nextGlobalID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	pw.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:r", nsDocRels)

	x.OTag("+workbookPr").Attr("date1904", "false").CTag()

	x.OTag("+sheets")
	for _, sheet := range pw.wb.sheets {
		sheetId, sheetRid := pw.nextWorkbookID()
		x.OTag("+sheet")
		x.Attr("name", sheet.name)
		x.Attr("sheetId", sheetId)
		x.Attr("r:id", sheetRid)
		x.CTag()

		err := pw.writeSheet(sheet, sheetRid)
		if err != nil {
			return err
		}
	}
	x.CTag()

	x.CTag()

	return pw.emit(abspath, bb.Bytes())
}

// writeSheet registers the worksheet part for sh and emits its
// pre-rendered payload. Parts are named sheet1.xml, sheet2.xml, ... in
// workbook creation order.
func (pw *partWriter) writeSheet(sh *Sheet, rid string) error {
	relpath := fmt.Sprintf("worksheets/sheet%d.xml", sh.id)
	abspath := "/xl/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	pw.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		Target: relpath,
	}

	return pw.emit(abspath, sh.part.Bytes())
}

func (pw *partWriter) writeStyles() error {
	_, rid := pw.nextWorkbookID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	pw.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", nsMain)

	x.OTag("+fonts").Attr("count", 1)
	x.OTag("+font").CTag()
	x.CTag()

	x.OTag("+fills").Attr("count", 2)
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", "none").CTag()
	x.CTag()
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", "gray125").CTag()
	x.CTag()
	x.CTag()

	x.OTag("+borders").Attr("count", 1)
	x.OTag("+border")
	x.OTag("+left").CTag()
	x.OTag("+right").CTag()
	x.OTag("+top").CTag()
	x.OTag("+bottom").CTag()
	x.OTag("+diagonal").CTag()
	x.CTag()
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	// cellXfs index 0 is the default format; 1 and 2 carry the built-in
	// date (14) and date-time (22) number formats referenced by date
	// cells.
	x.OTag("+cellXfs").Attr("count", 3)
	for _, numFmtId := range []int{0, 14, 22} {
		x.OTag("+xf")
		x.Attr("numFmtId", numFmtId)
		x.Attr("fontId", 0)
		x.Attr("fillId", 0)
		x.Attr("borderId", 0)
		x.Attr("xfId", 0)
		if numFmtId > 0 {
			x.Attr("applyNumberFormat", 1)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.CTag()

	return pw.emit(abspath, bb.Bytes())
}

func (pw *partWriter) writeSharedStrings() error {
	_, rid := pw.nextWorkbookID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	pw.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		Target: relpath,
	}

	t := pw.wb.shared

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("sst")
	x.Attr("xmlns", nsMain)
	x.Attr("count", t.RefCount())
	x.Attr("uniqueCount", t.UniqueCount())

	for _, s := range t.strings {
		x.OTag("+si")
		x.OTag("t")
		if strings.TrimSpace(s) != s {
			x.Attr("xml:space", "preserve")
		}
		x.Write(s)
		x.CTag()
		x.CTag()
	}

	x.CTag()

	return pw.emit(abspath, bb.Bytes())
}

func (pw *partWriter) writeCalcChain() error {
	_, rid := pw.nextWorkbookID()

	relpath := "calcChain.xml"
	abspath := "/xl/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.calcChain+xml"
	pw.workbookRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/calcChain",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("calcChain")
	x.Attr("xmlns", nsMain)

	for _, sheet := range pw.wb.sheets {
		for _, ref := range sheet.formulaRefs {
			x.OTag("+c").Attr("r", ref).Attr("i", sheet.id).CTag()
		}
	}

	x.CTag()

	return pw.emit(abspath, bb.Bytes())
}

func (pw *partWriter) writeCoreProperties() error {
	_, rid := pw.nextGlobalID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	pw.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	// No creation timestamp: the part stays byte-identical across runs,
	// so file mode and memory mode produce the same archive content.
	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	x.CTag()

	return pw.emit(abspath, bb.Bytes())
}

func (pw *partWriter) writeExtendedProperties(appname string) error {
	_, rid := pw.nextGlobalID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	pw.partContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	pw.globalRels[rid] = relInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if appname != "" {
		x.OTag("+Application").String(appname).CTag()
	}

	x.CTag()

	return pw.emit(abspath, bb.Bytes())
}

func (pw *partWriter) writeRels(path string, rels map[string]relInfo) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", nsPkgRels)
	enumerate(rels, func(rid string, info relInfo) {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		x.CTag()
	})
	x.CTag()

	return pw.emit(path, bb.Bytes())
}

func (pw *partWriter) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Types")
	x.Attr("xmlns", nsContentTypes)
	enumerate(pw.defaultContentTypes, func(ext, ctype string) {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
	})
	enumerate(pw.partContentTypes, func(abspath, ctype string) {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
	})
	x.CTag()

	return pw.emit("[Content_Types].xml", bb.Bytes())
}

// enumerate visits map entries in sorted key order, for deterministic
// output.
func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V)) {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		callback(k, m[k])
	}
}

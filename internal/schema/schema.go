// Package schema defines the output document for herbicide label tables and
// assembles instruction records into it.
package schema

import (
	"encoding/json"
	"io"
	"time"
)

const (
	// ExtractorID identifies this pipeline in metadatos_registro.
	ExtractorID = "MinerU_Pipeline"
	// ProductType is the fixed product class of every document.
	ProductType = "HERBICIDA"
	// SoilTextureCondition annotates doses that depend on soil texture.
	SoilTextureCondition = "Según textura"
	// UnspecifiedApplication is used when a row has no timing text.
	UnspecifiedApplication = "No especificado"

	dateLayout = "2006-01-02"
)

// Object is an open JSON object used for sections the extractor leaves as
// empty placeholders.
type Object map[string]any

// Document is the top-level output record.
type Document struct {
	Metadata     Metadata      `json:"metadatos_registro"`
	Product      Product       `json:"identificacion_producto"`
	Global       GlobalParams  `json:"parametros_tecnicos_globales"`
	Instructions []Instruction `json:"instrucciones_uso_desagregadas"`
	Restrictions Restrictions  `json:"restricciones_seguridad"`
}

type Metadata struct {
	ProcessedOn string `json:"fecha_procesamiento"`
	SourceFile  string `json:"nombre_archivo_origen"`
	Extractor   string `json:"extractor_responsable"`
}

type Product struct {
	TradeName         string   `json:"nombre_comercial"`
	Type              string   `json:"tipo_producto"`
	Formulation       string   `json:"formulacion"`
	ActiveIngredients []Object `json:"ingredientes_activos"`
	SAGRegistration   string   `json:"numero_registro_sag"`
	HRACClass         Object   `json:"clasificacion_hrac"`
	Holder            string   `json:"titular_distribuidor"`
}

type GlobalParams struct {
	Application   Object `json:"protocolo_aplicacion"`
	Mixing        Object `json:"protocolo_mezcla"`
	Compatibility Object `json:"compatibilidad_quimica"`
}

type Restrictions struct {
	PreHarvest   []Object `json:"carencias"`
	ReEntry      Object   `json:"periodos_reingreso"`
	CropRotation []Object `json:"rotacion_cultivos_plantback"`
}

// Instruction is one crop/weed/dose usage entry extracted from a data row.
type Instruction struct {
	ID              int    `json:"id_fila"`
	Crop            string `json:"cultivo_autorizado"`
	ApplicationType string `json:"tipo_aplicacion"`
	Weeds           []Weed `json:"malezas_objetivo"`
	Dose            Dose   `json:"dosis"`
	Timing          Timing `json:"momento_aplicacion"`
	Remarks         string `json:"observaciones_especificas"`
}

type Weed struct {
	CommonName string `json:"nombre_comun"`
}

// Dose keeps the source text next to the parsed range. Min and Max are nil
// when the text could not be parsed.
type Dose struct {
	Text          string   `json:"texto_original"`
	Min           *float64 `json:"valor_min"`
	Max           *float64 `json:"valor_max"`
	Unit          string   `json:"unidad"`
	SoilCondition string   `json:"condicion_suelo"`
}

type Timing struct {
	CropStage string `json:"estado_cultivo"`
	WeedStage string `json:"estado_maleza"`
}

// RunInfo is the per-run metadata injected into Assemble.
type RunInfo struct {
	SourceFile string
	Product    string
	Date       time.Time
}

// Assemble wraps instructions into a document. Sections the extractor does
// not populate are emitted as empty objects and lists.
func Assemble(instructions []Instruction, info RunInfo) Document {
	if instructions == nil {
		instructions = []Instruction{}
	}
	return Document{
		Metadata: Metadata{
			ProcessedOn: info.Date.Format(dateLayout),
			SourceFile:  info.SourceFile,
			Extractor:   ExtractorID,
		},
		Product: Product{
			TradeName:         info.Product,
			Type:              ProductType,
			ActiveIngredients: []Object{},
			HRACClass:         Object{},
		},
		Global: GlobalParams{
			Application:   Object{},
			Mixing:        Object{},
			Compatibility: Object{},
		},
		Instructions: instructions,
		Restrictions: Restrictions{
			PreHarvest:   []Object{},
			ReEntry:      Object{},
			CropRotation: []Object{},
		},
	}
}

// Merge concatenates the instruction lists of docs in order under the first
// document's metadata and identification. It reports false when docs is
// empty.
func Merge(docs []Document) (Document, bool) {
	if len(docs) == 0 {
		return Document{}, false
	}
	out := docs[0]
	total := 0
	for _, d := range docs {
		total += len(d.Instructions)
	}
	merged := make([]Instruction, 0, total)
	for _, d := range docs {
		merged = append(merged, d.Instructions...)
	}
	out.Instructions = merged
	return out, true
}

// Encode writes doc as two-space indented JSON. Non-ASCII text and HTML
// characters are written as-is.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

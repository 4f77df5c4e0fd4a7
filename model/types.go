package model

import "time"

// LocationKind identifies which of the three location collections a
// reference points into.
type LocationKind string

const (
	KindShop   LocationKind = "NEGOZIO"
	KindDepot  LocationKind = "DEPOSITO"
	KindDriver LocationKind = "AUTISTA"
)

// Kinds lists every valid LocationKind.
var Kinds = []LocationKind{KindShop, KindDepot, KindDriver}

func (k LocationKind) Valid() bool {
	switch k {
	case KindShop, KindDepot, KindDriver:
		return true
	}
	return false
}

// GenericLabel is the display fallback for a dangling location reference.
func (k LocationKind) GenericLabel() string {
	switch k {
	case KindShop:
		return "Negozio"
	case KindDepot:
		return "Deposito"
	case KindDriver:
		return "Autista"
	}
	return string(k)
}

type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

// LocationPatch carries the updatable fields of a Location. Nil means
// leave the field as is.
type LocationPatch struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// LocationRef is the (kind, id) pair a pallet or movement points at.
type LocationRef struct {
	Kind LocationKind `json:"kind"`
	ID   string       `json:"id"`
}

// PalletTypes is the catalogue offered by the UI. ApplyScanMove accepts
// any non-empty string; an empty type falls back to ALTRO.
var PalletTypes = []string{
	"EUR/EPAL", "CHEP", "IFCO",
	"CP1", "CP2", "CP3", "CP4", "CP5", "CP6", "CP7", "CP8",
	"ALTRO",
}

const DefaultPalletType = "ALTRO"

// Pallet is one row of the location ledger: where a given pallet code
// is right now. At most one row exists per distinct code/altCode.
type Pallet struct {
	ID         string      `json:"id"`
	Code       string      `json:"code"`
	AltCode    string      `json:"altCode,omitempty"`
	PalletType string      `json:"palletType"`
	Qty        int         `json:"qty"`
	Location   LocationRef `json:"location"`
	Note       string      `json:"note,omitempty"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// MatchesCode reports whether code equals either scan key of the pallet.
func (p Pallet) MatchesCode(code string) bool {
	return code != "" && (p.Code == code || p.AltCode == code)
}

// StockMove is one immutable entry of the movement log.
type StockMove struct {
	Ts         time.Time   `json:"ts"`
	Code       string      `json:"code"`
	PalletType string      `json:"palletType"`
	Qty        int         `json:"qty"`
	From       LocationRef `json:"from"`
	To         LocationRef `json:"to"`
	Note       string      `json:"note,omitempty"`
}

// ScanSource tells a history entry apart by how the code was entered.
type ScanSource string

const (
	SourceQR     ScanSource = "qr"
	SourceManual ScanSource = "manual"
)

// ScanHistoryItem is one raw scan event. It is recorded whether or not
// the operator completes the move that follows it.
type ScanHistoryItem struct {
	Code         string       `json:"code"`
	Ts           time.Time    `json:"ts"`
	Lat          *float64     `json:"lat,omitempty"`
	Lng          *float64     `json:"lng,omitempty"`
	Accuracy     *float64     `json:"accuracy,omitempty"`
	Source       ScanSource   `json:"source"`
	DeclaredKind LocationKind `json:"declaredKind,omitempty"`
	DeclaredID   string       `json:"declaredId,omitempty"`
	PalletType   string       `json:"palletType,omitempty"`
	Qty          int          `json:"qty,omitempty"`
}

// StockRow is the derived per-(location, type) quantity. Never persisted.
type StockRow struct {
	LocationKind LocationKind `json:"locationKind"`
	LocationID   string       `json:"locationId"`
	Label        string       `json:"label"`
	PalletType   string       `json:"palletType"`
	Qty          int          `json:"qty"`
}

// ScanMoveArgs is the validated input of the ledger's key operation.
type ScanMoveArgs struct {
	Code       string       `json:"code"`
	PalletType string       `json:"palletType"`
	Qty        float64      `json:"qty"`
	ToKind     LocationKind `json:"toKind"`
	ToID       string       `json:"toId"`
	Note       string       `json:"note,omitempty"`
}

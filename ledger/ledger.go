package ledger

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"bancali/model"
	"bancali/registry"
	"bancali/store"
)

// Ledger is the single source of truth for where each pallet currently
// is. It owns the pallet collection plus the movement and scan history
// logs, and funnels every mutation through its operations.
type Ledger struct {
	st  *store.Store
	reg *registry.Registry

	historyCap int
	movesCap   int
}

const (
	DefaultHistoryCap = 5000
	DefaultMovesCap   = 10000
)

func New(st *store.Store, reg *registry.Registry) *Ledger {
	return &Ledger{st: st, reg: reg, historyCap: DefaultHistoryCap, movesCap: DefaultMovesCap}
}

// SetCaps overrides the retention caps of the two logs. Zero or negative
// values keep the defaults.
func (l *Ledger) SetCaps(historyCap, movesCap int) {
	if historyCap > 0 {
		l.historyCap = historyCap
	}
	if movesCap > 0 {
		l.movesCap = movesCap
	}
}

// Pallets returns the ledger snapshot in persisted order, newest first.
func (l *Ledger) Pallets() ([]model.Pallet, error) {
	var pallets []model.Pallet
	if err := l.st.ReadJSON(store.KeyPallets, &pallets); err != nil {
		return nil, err
	}
	return pallets, nil
}

// FindByCode returns the row matching code against either scan key.
// Persisted order, first match wins.
func (l *Ledger) FindByCode(code string) (*model.Pallet, error) {
	pallets, err := l.Pallets()
	if err != nil {
		return nil, err
	}
	return findByCode(pallets, code), nil
}

func findByCode(pallets []model.Pallet, code string) *model.Pallet {
	for i := range pallets {
		if pallets[i].MatchesCode(code) {
			return &pallets[i]
		}
	}
	return nil
}

// upsertInto replaces the row with pallet's id, else prepends. It
// rejects a row whose scan keys would collide with a different row.
func upsertInto(pallets []model.Pallet, p model.Pallet) ([]model.Pallet, error) {
	for _, key := range []string{p.Code, p.AltCode} {
		if key == "" {
			continue
		}
		if other := findByCode(pallets, key); other != nil && other.ID != p.ID {
			return nil, &model.ConflictError{Code: key}
		}
	}
	for i := range pallets {
		if pallets[i].ID == p.ID {
			pallets[i] = p
			return pallets, nil
		}
	}
	return append([]model.Pallet{p}, pallets...), nil
}

// Upsert writes one row through the collision check and persists the
// whole collection.
func (l *Ledger) Upsert(p model.Pallet) (model.Pallet, error) {
	pallets, err := l.Pallets()
	if err != nil {
		return model.Pallet{}, err
	}
	pallets, err = upsertInto(pallets, p)
	if err != nil {
		return model.Pallet{}, err
	}
	if err := l.st.WriteJSON(store.KeyPallets, pallets); err != nil {
		return model.Pallet{}, err
	}
	return p, nil
}

// Delete removes a row outright. Movements and history keep referencing
// the code as a record of past activity.
func (l *Ledger) Delete(id string) error {
	pallets, err := l.Pallets()
	if err != nil {
		return err
	}
	for i := range pallets {
		if pallets[i].ID == id {
			pallets = append(pallets[:i], pallets[i+1:]...)
			return l.st.WriteJSON(store.KeyPallets, pallets)
		}
	}
	return &model.NotFoundError{Kind: "pallet", ID: id}
}

// MoveResult is what ApplyScanMove hands back: the updated row plus the
// endpoints of the recorded movement.
type MoveResult struct {
	Pallet model.Pallet      `json:"pallet"`
	From   model.LocationRef `json:"from"`
	To     model.LocationRef `json:"to"`
}

// ApplyScanMove commits a scan as a stock update: pallet upsert,
// movement append and last-scan marker are written in one transaction,
// so no reader ever sees the ledger moved without the movement logged.
func (l *Ledger) ApplyScanMove(args model.ScanMoveArgs) (*MoveResult, error) {
	code := strings.TrimSpace(args.Code)
	if code == "" {
		return nil, &model.ValidationError{Field: "code", Reason: "must not be empty"}
	}
	if !args.ToKind.Valid() {
		return nil, &model.ValidationError{Field: "toKind", Reason: "unknown location kind"}
	}

	// Resolved before the transaction: may synthesize the default depot.
	defaultDepot, err := l.reg.GetOrCreateDefault(model.KindDepot)
	if err != nil {
		return nil, err
	}

	tx, err := l.st.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var pallets []model.Pallet
	if err := l.st.ReadJSONTx(tx, store.KeyPallets, &pallets); err != nil {
		return nil, err
	}

	found := findByCode(pallets, code)

	from := model.LocationRef{Kind: model.KindDepot, ID: defaultDepot.ID}
	if found != nil {
		from = found.Location
	}

	qty := int(math.Floor(args.Qty))
	if qty < 1 {
		qty = 1
	}
	palletType := strings.TrimSpace(args.PalletType)
	if palletType == "" {
		palletType = model.DefaultPalletType
	}

	now := time.Now()
	updated := model.Pallet{
		PalletType: palletType,
		Qty:        qty,
		Location:   model.LocationRef{Kind: args.ToKind, ID: args.ToID},
		UpdatedAt:  now,
	}
	if found != nil {
		updated.ID = found.ID
		updated.Code = found.Code
		updated.AltCode = found.AltCode
		updated.Note = found.Note
	} else {
		updated.ID = uuid.NewString()
		updated.Code = code
	}
	if note := strings.TrimSpace(args.Note); note != "" {
		updated.Note = note
	}

	pallets, err = upsertInto(pallets, updated)
	if err != nil {
		return nil, err
	}
	if err := l.st.WriteJSONTx(tx, store.KeyPallets, pallets); err != nil {
		return nil, err
	}

	move := model.StockMove{
		Ts:         now,
		Code:       updated.Code,
		PalletType: palletType,
		Qty:        qty,
		From:       from,
		To:         updated.Location,
		Note:       strings.TrimSpace(args.Note),
	}
	if err := l.appendMoveTx(tx, move); err != nil {
		return nil, err
	}

	if err := l.st.PutRawTx(tx, store.KeyLastScan, []byte(updated.Code)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().
		Str("code", updated.Code).
		Str("type", palletType).
		Int("qty", qty).
		Str("from", string(from.Kind)+"/"+from.ID).
		Str("to", string(updated.Location.Kind)+"/"+updated.Location.ID).
		Msg("scan move applied")

	return &MoveResult{Pallet: updated, From: from, To: updated.Location}, nil
}

// LastScan returns the most recently committed pallet code, or "".
func (l *Ledger) LastScan() (string, error) {
	raw, err := l.st.GetRaw(store.KeyLastScan)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (l *Ledger) appendMoveTx(tx *sqlx.Tx, move model.StockMove) error {
	var moves []model.StockMove
	if err := l.st.ReadJSONTx(tx, store.KeyStockMoves, &moves); err != nil {
		return err
	}
	moves = append([]model.StockMove{move}, moves...)
	if len(moves) > l.movesCap {
		moves = moves[:l.movesCap]
	}
	return l.st.WriteJSONTx(tx, store.KeyStockMoves, moves)
}

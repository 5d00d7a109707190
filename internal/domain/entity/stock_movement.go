package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre sucursales
)

// Tipos de referencia: el documento de negocio que originó el movimiento.
const (
	ReferencePURCHASE   = "PURCHASE"
	ReferenceSALE       = "SALE"
	ReferencePRODUCTION = "PRODUCTION"
	ReferenceTRANSFER   = "TRANSFER"
	ReferenceADJUSTMENT = "ADJUSTMENT"
)

// ValidMovementType reporta si s es uno de los tipos de movimiento enumerados.
func ValidMovementType(s string) bool {
	switch s {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeTRANSFER:
		return true
	}
	return false
}

// ValidReferenceType reporta si s es uno de los tipos de referencia enumerados.
func ValidReferenceType(s string) bool {
	switch s {
	case ReferencePURCHASE, ReferenceSALE, ReferencePRODUCTION, ReferenceTRANSFER, ReferenceADJUSTMENT:
		return true
	}
	return false
}

// StockMovement representa un movimiento inmutable del libro mayor de inventario.
// Quantity va con signo: positivo entrada/ajuste+, negativo salida.
// Una vez persistido nunca se edita ni borra; las correcciones se hacen
// con movimientos compensatorios.
type StockMovement struct {
	ID            string
	CompanyID     string
	ItemID        string
	BranchID      string
	UOMID         string
	Type          string          // IN, OUT, ADJUSTMENT, TRANSFER
	ReferenceType string          // PURCHASE, SALE, PRODUCTION, TRANSFER, ADJUSTMENT
	ReferenceID   string          // documento origen; los dos lados de un transfer comparten el mismo
	Quantity      decimal.Decimal // con signo
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	BatchNumber   string
	LotNumber     string
	ExpiryDate    *time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}

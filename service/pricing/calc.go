package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	mmPerM3 = decimal.NewFromInt(1_000_000_000)
	mmPerM2 = decimal.NewFromInt(1_000_000)
)

// VolumeFromDimensions returns the volume of one piece in cubic meters
// from its millimeter dimensions. Zero when any dimension is missing.
func VolumeFromDimensions(thicknessMM, widthMM, lengthMM *decimal.Decimal) decimal.Decimal {
	if thicknessMM == nil || widthMM == nil || lengthMM == nil {
		return decimal.Zero
	}
	return thicknessMM.Mul(*widthMM).Mul(*lengthMM).Div(mmPerM3)
}

// AreaFromDimensions returns the face area of one piece in square
// meters. Zero when a dimension is missing.
func AreaFromDimensions(widthMM, lengthMM *decimal.Decimal) decimal.Decimal {
	if widthMM == nil || lengthMM == nil {
		return decimal.Zero
	}
	return widthMM.Mul(*lengthMM).Div(mmPerM2)
}

// PiecesInVolume returns how many whole pieces fit a target volume,
// rounded up so the buyer never comes up short. Zero when the piece
// volume is not positive.
func PiecesInVolume(volumeM3, pieceVolumeM3 decimal.Decimal) int64 {
	if !pieceVolumeM3.IsPositive() {
		return 0
	}
	return volumeM3.Div(pieceVolumeM3).Ceil().IntPart()
}

// PiecesInArea returns how many whole pieces cover a target area,
// rounded up. Zero when the piece area is not positive.
func PiecesInArea(areaM2, pieceAreaM2 decimal.Decimal) int64 {
	if !pieceAreaM2.IsPositive() {
		return 0
	}
	return areaM2.Div(pieceAreaM2).Ceil().IntPart()
}

// PricePerPiece converts a per-base-unit price into a per-piece price
// using the pieces-per-base factor from the unit string.
func PricePerPiece(basePrice decimal.Decimal, piecesPerBase decimal.Decimal) decimal.Decimal {
	if !piecesPerBase.IsPositive() {
		return basePrice
	}
	return basePrice.Div(piecesPerBase)
}

package formatter

import "fmt"

// carrierNames maps IATA carrier codes to display names.
var carrierNames = map[string]string{
	"AA": "American Airlines",
	"AF": "Air France",
	"AZ": "ITA Airways",
	"BA": "British Airways",
	"CA": "Air China",
	"CX": "Cathay Pacific",
	"CZ": "China Southern Airlines",
	"DL": "Delta Air Lines",
	"EK": "Emirates",
	"ET": "Ethiopian Airlines",
	"EY": "Etihad Airways",
	"FR": "Ryanair",
	"IB": "Iberia",
	"JL": "Japan Airlines",
	"KL": "KLM Royal Dutch Airlines",
	"LH": "Lufthansa",
	"LX": "Swiss International Air Lines",
	"MS": "EgyptAir",
	"MU": "China Eastern Airlines",
	"NH": "All Nippon Airways",
	"OS": "Austrian Airlines",
	"QF": "Qantas",
	"QR": "Qatar Airways",
	"SQ": "Singapore Airlines",
	"TK": "Turkish Airlines",
	"U2": "EasyJet",
	"UA": "United Airlines",
	"W6": "Wizz Air",
}

// CarrierName resolves a carrier code to its display name, falling back to a
// templated string for unknown codes.
func CarrierName(code string) string {
	if name, ok := carrierNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Airline %s", code)
}

package aircraft

import (
	"github.com/yegors/preflight/internal/performance"
)

var (
	cell   = performance.Present
	noData = performance.Absent
)

// c150nAltitudes and c150nTemperatures are the chart grid at 1600 lb
var (
	c150nAltitudes    = []float64{0, 1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000}
	c150nTemperatures = []float64{0, 10, 20, 30, 40}
)

// BuiltinModels returns the models every catalog is seeded with
func BuiltinModels() []*Model {
	return []*Model{c150n()}
}

func c150n() *Model {
	return &Model{
		Code:     "C150N",
		Name:     "Cessna 150N",
		Category: "Single Engine Land",
		Performance: &Performance{
			Takeoff: &performance.Table{
				Altitudes:    append([]float64(nil), c150nAltitudes...),
				Temperatures: append([]float64(nil), c150nTemperatures...),
				Cells: [][]performance.Cell{
					{cell(655, 1245), cell(710, 1335), cell(765, 1435), cell(820, 1540), cell(880, 1650)},      // SL
					{cell(720, 1365), cell(775, 1465), cell(835, 1575), cell(900, 1690), cell(970, 1815)},      // 1000
					{cell(790, 1500), cell(855, 1615), cell(920, 1735), cell(990, 1865), cell(1065, 2005)},     // 2000
					{cell(870, 1650), cell(935, 1780), cell(1010, 1915), cell(1090, 2065), cell(1170, 2225)},   // 3000
					{cell(955, 1820), cell(1030, 1965), cell(1115, 2125), cell(1200, 2290), cell(1290, 2475)},  // 4000
					{cell(1050, 2015), cell(1140, 2185), cell(1230, 2360), cell(1325, 2555), cell(1430, 2770)}, // 5000
					{cell(1160, 2245), cell(1255, 2435), cell(1360, 2640), cell(1465, 2870), cell(1580, 3120)}, // 6000
					{cell(1285, 2510), cell(1390, 2730), cell(1505, 2970), cell(1625, 3240), noData()},         // 7000, no 40C
					{cell(1420, 2820), cell(1540, 3080), cell(1670, 3370), noData(), noData()},                 // 8000, no 30C/40C
				},
			},
			Landing: &performance.Table{
				Altitudes:    append([]float64(nil), c150nAltitudes...),
				Temperatures: append([]float64(nil), c150nTemperatures...),
				Cells: [][]performance.Cell{
					{cell(425, 1045), cell(440, 1065), cell(455, 1090), cell(470, 1110), cell(485, 1135)}, // SL
					{cell(440, 1065), cell(455, 1090), cell(470, 1110), cell(485, 1135), cell(505, 1165)}, // 1000
					{cell(455, 1090), cell(470, 1115), cell(490, 1140), cell(505, 1165), cell(520, 1185)}, // 2000
					{cell(470, 1115), cell(490, 1140), cell(505, 1165), cell(525, 1195), cell(540, 1215)}, // 3000
					{cell(490, 1140), cell(505, 1165), cell(525, 1195), cell(545, 1225), cell(560, 1245)}, // 4000
					{cell(510, 1170), cell(525, 1195), cell(545, 1225), cell(565, 1255), cell(585, 1285)}, // 5000
					{cell(530, 1200), cell(545, 1225), cell(565, 1255), cell(585, 1285), cell(605, 1315)}, // 6000
					{cell(550, 1230), cell(570, 1260), cell(590, 1290), cell(610, 1320), cell(630, 1350)}, // 7000
					{cell(570, 1260), cell(590, 1290), cell(610, 1320), cell(630, 1350), cell(655, 1385)}, // 8000
				},
			},
		},
		Fuel: &FuelConstants{
			CruiseGPH:       4.1,
			TaxiAndStartGal: 0.8,
			ClimbGal:        0.7,
			ReserveGal:      2.05,
		},
		WeightBalance: &WeightBalance{
			Arms: Arms{
				Empty:      33.07,
				FrontSeats: 39,
				RearSeats:  64,
				FuelTank:   42.2,
				Baggage:    64,
			},
			Limits: Limits{
				MaxWeight: 1600,
				MinWeight: 0,
				CGRange:   CGRange{Forward: 35, Aft: 47},
			},
		},
	}
}

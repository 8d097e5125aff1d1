package testing

import (
	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/infrastructure/repositories/memory"
)

// MustCreateComponent is a helper for tests - panics on validation error
func MustCreateComponent(
	id string,
	kind entities.ComponentKind,
	bikeType entities.BikeType,
	model string,
	teeth []int,
	speeds string,
	weight float64,
) *entities.Component {
	c, err := entities.NewComponent(entities.ComponentID(id), kind, bikeType, model, "", teeth, speeds, weight, 0)
	if err != nil {
		panic(err)
	}
	return c
}

// Crankset builds a crankset with the given chainrings and speed label
func Crankset(speeds string, weight float64, chainrings ...int) *entities.Component {
	return &entities.Component{
		ID:     "test-crankset",
		Kind:   entities.Crankset,
		Model:  "Test Crankset",
		Teeth:  chainrings,
		Speeds: speeds,
		Weight: weight,
	}
}

// Cassette builds a cassette with the given cogs and speed label
func Cassette(speeds string, weight float64, cogs ...int) *entities.Component {
	return &entities.Component{
		ID:     "test-cassette",
		Kind:   entities.Cassette,
		Model:  "Test Cassette",
		Teeth:  cogs,
		Speeds: speeds,
		Weight: weight,
	}
}

// RoadCompact returns an 11-speed 50/34 with 11-28 on 700x25
func RoadCompact() *entities.Setup {
	return &entities.Setup{
		Crankset:    Crankset("11-speed", 700, 50, 34),
		Cassette:    Cassette("11-speed", 250, 11, 12, 13, 14, 15, 17, 19, 21, 23, 25, 28),
		WheelSize:   entities.Wheel700C,
		TireWidthMM: 25,
	}
}

// GravelOneBy returns a 12-speed 40T with 10-52 on 700x40
func GravelOneBy() *entities.Setup {
	return &entities.Setup{
		Crankset:    Crankset("12-speed", 620, 40),
		Cassette:    Cassette("12-speed", 450, 10, 12, 14, 16, 18, 21, 24, 28, 32, 36, 42, 52),
		WheelSize:   entities.Wheel700C,
		TireWidthMM: 40,
	}
}

// BuildCatalog builds a small catalog covering every bike type
func BuildCatalog() *memory.ComponentRepository {
	repo := memory.NewComponentRepository(8)
	components := []*entities.Component{
		MustCreateComponent("shimano-105-50-34", entities.Crankset, entities.Road, "Shimano 105 R7000", []int{50, 34}, "11-speed", 742),
		MustCreateComponent("shimano-105-11-28", entities.Cassette, entities.Road, "Shimano 105 R7000", []int{11, 12, 13, 14, 15, 17, 19, 21, 23, 25, 28}, "11-speed", 284),
		MustCreateComponent("shimano-tiagra-50-34", entities.Crankset, entities.Road, "Shimano Tiagra 4700", []int{50, 34}, "10-speed", 830),
		MustCreateComponent("sram-rival-xplr-40", entities.Crankset, entities.Gravel, "SRAM Rival XPLR", []int{40}, "12-speed", 620),
		MustCreateComponent("sram-xplr-10-44", entities.Cassette, entities.Gravel, "SRAM XPLR XG-1251 XD", []int{10, 11, 13, 15, 17, 19, 21, 24, 28, 32, 38, 44}, "12-speed", 373),
		MustCreateComponent("sram-gx-32", entities.Crankset, entities.MTB, "SRAM GX Eagle DUB", []int{32}, "12-speed", 520),
		MustCreateComponent("sram-gx-10-52", entities.Cassette, entities.MTB, "SRAM GX Eagle XG-1275 XD", []int{10, 12, 14, 16, 18, 21, 24, 28, 32, 36, 42, 52}, "12-speed", 450),
	}
	if err := repo.LoadComponents(components); err != nil {
		panic(err)
	}
	return repo
}

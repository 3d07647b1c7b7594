package location

import (
	"encoding/json"
	"os"
)

type Province struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	NameTh    string   `json:"name_th"`
	Region    string   `json:"region"`
	Districts []string `json:"districts"`
}

var provinces []Province

// Init loads the Thai province dataset at boot.
func Init() error {
	data, err := os.ReadFile("pkg/data/provinces.json")
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &provinces)
}

func GetProvinces() []Province {
	return provinces
}

// GetDistricts returns the districts of a province, nil when unknown.
func GetDistricts(provinceName string) []string {
	for _, p := range provinces {
		if p.Name == provinceName {
			return p.Districts
		}
	}
	return nil
}

// ValidProvince reports whether the name exists in the dataset.
func ValidProvince(name string) bool {
	for _, p := range provinces {
		if p.Name == name {
			return true
		}
	}
	return false
}

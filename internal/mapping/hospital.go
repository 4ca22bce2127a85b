package mapping

import (
	"strconv"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

const unknownRegion = "Unknown"

type region struct {
	no   int
	name string
}

// The API stores location numbers only; these are the names the portal shows.
var (
	countries = []region{{1, "Kenya"}, {2, "Uganda"}, {3, "Tanzania"}}
	provinces = []region{{1, "Nairobi"}, {2, "Mombasa"}, {3, "Kisumu"}, {4, "Nakuru"}}
	areas     = []region{{1, "Upper Hill"}, {2, "Parklands"}, {3, "CBD"}, {4, "Westlands"}}
)

func regionName(list []region, no int) string {
	for _, r := range list {
		if r.no == no {
			return r.name
		}
	}
	return unknownRegion
}

// regionNo returns 0 for names not in list.
func regionNo(list []region, name string) int {
	for _, r := range list {
		if r.name == name {
			return r.no
		}
	}
	return 0
}

func regionNames(list []region) []string {
	names := make([]string, 0, len(list))
	for _, r := range list {
		names = append(names, r.name)
	}
	return names
}

// HospitalRegions lists the selectable countries, provinces and areas.
func HospitalRegions() domain.Regions {
	return domain.Regions{
		Countries: regionNames(countries),
		Provinces: regionNames(provinces),
		Areas:     regionNames(areas),
	}
}

// HospitalToModel maps a wire clinic to its UI model.
func HospitalToModel(d dto.HospitalDTO) domain.Hospital {
	return domain.Hospital{
		ID:              strconv.Itoa(d.ClinicCode),
		HospitalName:    d.ClinicName,
		Country:         regionName(countries, d.CountryNo),
		Province:        regionName(provinces, d.ProvinceNo),
		Area:            regionName(areas, d.AreaNo),
		PostalAddress:   d.PostalAddress,
		PhysicalAddress: d.PhysicalAddress,
		Tel1:            d.Tel1,
		Tel2:            d.Tel2,
		Mobile1:         d.Mobile1,
		Mobile2:         d.Mobile2,
		Fax:             d.Fax,
		Email:           d.Email,
		Website:         d.Website,
	}
}

// HospitalToDTO maps a UI hospital back to the wire shape.
func HospitalToDTO(m domain.Hospital) dto.HospitalDTO {
	return dto.HospitalDTO{
		ClinicCode:      atoiOrZero(m.ID),
		ClinicName:      m.HospitalName,
		CountryNo:       regionNo(countries, m.Country),
		ProvinceNo:      regionNo(provinces, m.Province),
		AreaNo:          regionNo(areas, m.Area),
		PostalAddress:   m.PostalAddress,
		PhysicalAddress: m.PhysicalAddress,
		Tel1:            m.Tel1,
		Tel2:            m.Tel2,
		Mobile1:         m.Mobile1,
		Mobile2:         m.Mobile2,
		Fax:             m.Fax,
		Email:           m.Email,
		Website:         m.Website,
	}
}

// HospitalsToModels maps a list of clinics.
func HospitalsToModels(dtos []dto.HospitalDTO) []domain.Hospital {
	return mapAll(dtos, HospitalToModel)
}

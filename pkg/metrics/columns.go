package metrics

// Name is the report label of one per-slice value, unit included
type Name string

// Per-slice value names
const (
	SliceIndex Name = "Slice Index"
	Percent    Name = "Percent (%)"

	LengthMM         Name = "Length (mm)"
	FeretMM          Name = "Max Diameter (mm)"
	PerimeterMM      Name = "Perimeter (mm)"
	MeanBrightness   Name = "Mean Brightness"
	CSAMM2           Name = "CSA (mm^2)"
	TotalCSAMM2      Name = "TCSA (mm^2)"
	CompactnessRatio Name = "Compactness"
	CircularityRatio Name = "Circularity"
	Cx               Name = "Cx"
	Cy               Name = "Cy"
	ThetaDeg         Name = "Theta (deg)"

	Imajor Name = "Imajor (mm^4)"
	Iminor Name = "Iminor (mm^4)"
	Zmajor Name = "Zmajor (mm^3)"
	Zminor Name = "Zminor (mm^3)"
	Rmajor Name = "Rmajor (mm)"
	Rminor Name = "Rminor (mm)"
	Jz     Name = "Jz (mm^4)"
	Zpol   Name = "Zpol (mm^3)"
	Rmax   Name = "Rmax (mm)"

	Ina Name = "Ina (mm^4)"
	Ila Name = "Ila (mm^4)"
	Zna Name = "Zna (mm^3)"
	Zla Name = "Zla (mm^3)"
	Rna Name = "Rna (mm)"
	Rla Name = "Rla (mm)"

	CSALenNorm    Name = "CSA (LenNorm)"
	ImajorLenNorm Name = "Imajor (LenNorm)"
	IminorLenNorm Name = "Iminor (LenNorm)"
	ZmajorLenNorm Name = "Zmajor (LenNorm)"
	ZminorLenNorm Name = "Zminor (LenNorm)"
	InaLenNorm    Name = "Ina (LenNorm)"
	IlaLenNorm    Name = "Ila (LenNorm)"
	ZnaLenNorm    Name = "Zna (LenNorm)"
	ZlaLenNorm    Name = "Zla (LenNorm)"
	JzLenNorm     Name = "Jz (LenNorm)"
	ZpolLenNorm   Name = "Zpol (LenNorm)"

	ImajorMatNorm Name = "Imajor (MatNorm)"
	IminorMatNorm Name = "Iminor (MatNorm)"
	ZmajorMatNorm Name = "Zmajor (MatNorm)"
	ZminorMatNorm Name = "Zminor (MatNorm)"
	InaMatNorm    Name = "Ina (MatNorm)"
	IlaMatNorm    Name = "Ila (MatNorm)"
	ZnaMatNorm    Name = "Zna (MatNorm)"
	ZlaMatNorm    Name = "Zla (MatNorm)"
	JzMatNorm     Name = "Jz (MatNorm)"
	ZpolMatNorm   Name = "Zpol (MatNorm)"
)

// Column describes one report column and the selections that enable it
type Column struct {
	Name        Name
	Unit        string
	Description string

	// Requires lists the selections that must all be present
	Requires []Metric
}

// Enabled reports whether every selection the column needs is in s
func (c Column) Enabled(s Set) bool {
	for _, m := range c.Requires {
		if !s.Has(m) {
			return false
		}
	}
	return true
}

// catalogue is the full report layout in output order
var catalogue = []Column{
	{SliceIndex, "", "Index of the slice along the sweep axis", nil},
	{Percent, "%", "Position of the slice as a percentage of the segment length", nil},
	{LengthMM, "mm", "Segment length", []Metric{Length}},
	{FeretMM, "mm", "Maximum feret diameter", []Metric{Feret}},
	{PerimeterMM, "mm", "Perimeter of the section", []Metric{Perimeter}},
	{MeanBrightness, "", "Mean pixel brightness", []Metric{MeanIntensity}},
	{CSAMM2, "mm^2", "Cross-sectional area", []Metric{CSA}},
	{TotalCSAMM2, "mm^2", "Cross-sectional area of the companion segment", []Metric{Compactness}},
	{CompactnessRatio, "", "Compactness calculated as CSA/TCSA", []Metric{Compactness}},
	{CircularityRatio, "", "Circularity calculated as 4*pi*CSA/Perimeter^2", []Metric{Circularity}},
	{Cx, "px", "x-coordinate of the centroid in slice pixel coordinates", []Metric{Centroid}},
	{Cy, "px", "y-coordinate of the centroid in slice pixel coordinates", []Metric{Centroid}},
	{ThetaDeg, "degrees", "Angle between the axis of the larger principal moment and the horizontal", []Metric{Theta}},

	{Iminor, "mm^4", "Second moment of area around the minor principal axis", []Metric{SecondMoment}},
	{Imajor, "mm^4", "Second moment of area around the major principal axis", []Metric{SecondMoment}},
	{Zminor, "mm^3", "Section modulus around the minor principal axis", []Metric{SectionModulus}},
	{Zmajor, "mm^3", "Section modulus around the major principal axis", []Metric{SectionModulus}},
	{Rminor, "mm", "Max distance from the minor principal axis", []Metric{Distance}},
	{Rmajor, "mm", "Max distance from the major principal axis", []Metric{Distance}},
	{Jz, "mm^4", "Polar moment of inertia", []Metric{PolarMoment}},
	{Zpol, "mm^3", "Polar section modulus", []Metric{PolarModulus}},
	{Rmax, "mm", "Max radius from the centroid", []Metric{Distance, PolarModulus}},

	{Ina, "mm^4", "Second moment of area around the neutral axis", []Metric{CustomAxis, SecondMoment}},
	{Ila, "mm^4", "Second moment of area around the loading axis", []Metric{CustomAxis, SecondMoment}},
	{Zna, "mm^3", "Section modulus around the neutral axis", []Metric{CustomAxis, SectionModulus}},
	{Zla, "mm^3", "Section modulus around the loading axis", []Metric{CustomAxis, SectionModulus}},
	{Rna, "mm", "Max distance from the neutral axis", []Metric{CustomAxis, Distance}},
	{Rla, "mm", "Max distance from the loading axis", []Metric{CustomAxis, Distance}},

	{CSALenNorm, "", "CSA^(1/2)/Length", []Metric{LengthNormalized, CSA}},
	{IminorLenNorm, "", "Iminor^(1/4)/Length", []Metric{LengthNormalized, SecondMoment}},
	{ImajorLenNorm, "", "Imajor^(1/4)/Length", []Metric{LengthNormalized, SecondMoment}},
	{ZminorLenNorm, "", "Zminor^(1/3)/Length", []Metric{LengthNormalized, SectionModulus}},
	{ZmajorLenNorm, "", "Zmajor^(1/3)/Length", []Metric{LengthNormalized, SectionModulus}},
	{InaLenNorm, "", "Ina^(1/4)/Length", []Metric{LengthNormalized, SecondMoment, CustomAxis}},
	{IlaLenNorm, "", "Ila^(1/4)/Length", []Metric{LengthNormalized, SecondMoment, CustomAxis}},
	{ZlaLenNorm, "", "Zla^(1/3)/Length", []Metric{LengthNormalized, SectionModulus, CustomAxis}},
	{ZnaLenNorm, "", "Zna^(1/3)/Length", []Metric{LengthNormalized, SectionModulus, CustomAxis}},
	{JzLenNorm, "", "Jz^(1/4)/Length", []Metric{LengthNormalized, PolarMoment}},
	{ZpolLenNorm, "", "Zpol^(1/3)/Length", []Metric{LengthNormalized, PolarModulus}},

	{IminorMatNorm, "", "Iminor divided by the second moment of area of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SecondMoment}},
	{ImajorMatNorm, "", "Imajor divided by the second moment of area of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SecondMoment}},
	{ZminorMatNorm, "", "Zminor divided by the section modulus of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SectionModulus}},
	{ZmajorMatNorm, "", "Zmajor divided by the section modulus of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SectionModulus}},
	{InaMatNorm, "", "Ina divided by the second moment of area of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SecondMoment, CustomAxis}},
	{IlaMatNorm, "", "Ila divided by the second moment of area of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SecondMoment, CustomAxis}},
	{ZnaMatNorm, "", "Zna divided by the section modulus of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SectionModulus, CustomAxis}},
	{ZlaMatNorm, "", "Zla divided by the section modulus of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, SectionModulus, CustomAxis}},
	{JzMatNorm, "", "Jz divided by the polar moment of inertia of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, PolarMoment}},
	{ZpolMatNorm, "", "Zpol divided by the polar section modulus of a solid circle with the same cross-sectional area", []Metric{MaterialNormalized, PolarModulus}},
}

// Columns returns the report columns enabled by s, in output order. Slice index and
// percent are always present.
func Columns(s Set) []Column {
	var out []Column
	for _, c := range catalogue {
		if c.Enabled(s) {
			out = append(out, c)
		}
	}
	return out
}

// Enabled reports whether the value called n is produced under s. Unknown names are
// never enabled.
func Enabled(s Set, n Name) bool {
	for _, c := range catalogue {
		if c.Name == n {
			return c.Enabled(s)
		}
	}
	return false
}

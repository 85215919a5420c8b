package tripgen

import (
	"encoding/xml"
	"io"
	"strings"
)

// Routes is a sumo route file (.rou.xml).
type Routes struct {
	XMLName  xml.Name  `xml:"routes"`
	VTypes   []VType   `xml:"vType"`
	Vehicles []Vehicle `xml:"vehicle"`
}

type VType struct {
	ID          string  `xml:"id,attr"`
	Length      int     `xml:"length,attr"`
	SpeedFactor float64 `xml:"speedFactor,attr"`
	SpeedDev    float64 `xml:"speedDev,attr"`
}

type Vehicle struct {
	ID     string `xml:"id,attr"`
	Type   string `xml:"type,attr"`
	Depart int    `xml:"depart,attr"`
	Route  Route  `xml:"route"`
}

type Route struct {
	Edges string `xml:"edges,attr"`
}

func NewRoute(edges []string) Route {
	return Route{Edges: strings.Join(edges, " ")}
}

func (r Route) EdgeIDs() []string {
	return strings.Fields(r.Edges)
}

func (r Routes) Write(w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func ReadRoutes(r io.Reader) (Routes, error) {
	var routes Routes
	err := xml.NewDecoder(r).Decode(&routes)
	return routes, err
}

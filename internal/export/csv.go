// Package export renders the network as CSV tables and GeoJSON documents.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vanshika/georoute/backend/internal/domain"
)

// NodesHeader and EdgesHeader are the column names of the CSV exports.
var (
	NodesHeader = []string{"id", "name", "lat", "lng"}
	EdgesHeader = []string{"from_id", "to_id", "weight"}
)

// WriteNodesCSV writes one row per node after the NodesHeader row.
func WriteNodesCSV(w io.Writer, nodes []domain.Node) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(NodesHeader); err != nil {
		return errors.Wrap(err, "Can't write nodes header")
	}
	for _, n := range nodes {
		row := []string{
			strconv.FormatInt(n.ID, 10),
			n.Name,
			formatFloat(n.Lat),
			formatFloat(n.Lng),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "Can't write node %d", n.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush nodes")
}

// WriteEdgesCSV writes one row per connection after the EdgesHeader row.
func WriteEdgesCSV(w io.Writer, edges []domain.Edge) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(EdgesHeader); err != nil {
		return errors.Wrap(err, "Can't write connections header")
	}
	for _, e := range edges {
		row := []string{
			strconv.FormatInt(e.From, 10),
			strconv.FormatInt(e.To, 10),
			formatFloat(e.Weight),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "Can't write connection %d", e.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush connections")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package med builds the M.E.D custody summary, its rights reading notice
// and their HTML previews.
package med

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoreKey is the local key holding the metadata of the last summary
const StoreKey = "sapd_last_med"

// DefaultObjects is used when no seized objects are given
const DefaultObjects = "Biens personnels"

// Delimiter frames the summary
var Delimiter = strings.Repeat("▬", 42)

// Input is the content of the custody form
type Input struct {
	Name       string   `json:"name"`
	Mail       string   `json:"mail"`
	Objects    string   `json:"objects"`
	Agents     string   `json:"agents"`
	Facts      []string `json:"facts"`
	FactsText  string   `json:"facts_text"`
	ProvidedID string   `json:"id"`
	MEDLink    string   `json:"med_link"`
	Matricule  string   `json:"matricule"`
	Poste      string   `json:"poste"`
}

// Meta is the structured part of a summary, kept under StoreKey
type Meta struct {
	SuspectName    string   `json:"suspectName"`
	MEDLink        string   `json:"med_link"`
	Facts          []string `json:"faitsList"`
	Amende         string   `json:"amende"`
	TempsDetention string   `json:"tempsDetention"`
	Matricule      string   `json:"matricule"`
	Poste          string   `json:"poste"`
	Agents         string   `json:"agents"`
	UniqueID       string   `json:"uniqueId"`
}

// Result is a built summary
type Result struct {
	Text    string `json:"text"`
	Meta    Meta   `json:"meta"`
	Mail    string `json:"mail"`
	Objects string `json:"objects"`
	// Generated is set when UniqueID was generated rather than given
	Generated bool `json:"generated"`
}

// FormatDate renders dd/mm/yyyy à hh:mm in the location of t
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006") + " à " + t.Format("15:04")
}

// Build assembles the summary text and metadata
func Build(in Input, now time.Time) Result {
	name := strings.TrimSpace(in.Name)
	mail := strings.TrimSpace(in.Mail)
	agents := strings.TrimSpace(in.Agents)
	objects := strings.TrimSpace(in.Objects)
	if objects == "" {
		objects = DefaultObjects
	}

	facts := cleanFacts(in.Facts)
	if len(facts) == 0 {
		if f := strings.TrimSpace(in.FactsText); f != "" {
			facts = []string{f}
		}
	}

	id, generated := UniqueID(in, now)

	// fine and detention time are not computed here
	const amende, temps = "", ""

	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	b.WriteString(":calendar_spiral: Date: " + FormatDate(now) + "\n")
	b.WriteString(":bust_in_silhouette: Nom du suspect : " + name + "\n")
	b.WriteString(":incoming_envelope: Email du suspect : " + mail + "\n")
	b.WriteString(":hourglass_flowing_sand: Temps de la détention : " + temps + "\n")
	if len(facts) > 0 {
		b.WriteString(":book: Faits :\n")
		for _, f := range facts {
			b.WriteString("- " + f + "\n")
		}
	} else {
		b.WriteString(":book: Faits : \n")
	}
	b.WriteString(":dollar: Amende :  " + amende + "\n")
	b.WriteString(":briefcase: Biens personnels saisis : " + objects + "\n")
	b.WriteString(":school_satchel: Biens personnels à rendre : " + DefaultObjects + "\n")
	b.WriteString(":envelope: ID unique de l'individu : " + id + "\n")
	b.WriteString(":man_police_officer: Clôturé par : " + agents + "\n")
	b.WriteString(Delimiter + "\n")

	return Result{
		Text: b.String(),
		Meta: Meta{
			SuspectName:    name,
			MEDLink:        strings.TrimSpace(in.MEDLink),
			Facts:          facts,
			Amende:         amende,
			TempsDetention: temps,
			Matricule:      strings.TrimSpace(in.Matricule),
			Poste:          strings.TrimSpace(in.Poste),
			Agents:         agents,
			UniqueID:       id,
		},
		Mail:      mail,
		Objects:   objects,
		Generated: generated,
	}
}

// UniqueID picks the identifier of the individual: the given id, else the
// M.E.D link, else a generated ID-<base36 millis>-<6 chars>
func UniqueID(in Input, now time.Time) (id string, generated bool) {
	if id := strings.TrimSpace(in.ProvidedID); id != "" {
		return id, false
	}
	if link := strings.TrimSpace(in.MEDLink); link != "" {
		return link, false
	}
	return "ID-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + randomSuffix(), true
}

func randomSuffix() string {
	u := uuid.New()
	s := strings.ToUpper(new(big.Int).SetBytes(u[:]).Text(36))
	for len(s) < 6 {
		s = "0" + s
	}
	return s[:6]
}

// cleanFacts flattens line breaks and drops empty entries
func cleanFacts(facts []string) []string {
	out := make([]string, 0, len(facts))
	for _, f := range facts {
		f = strings.Join(strings.FieldsFunc(f, func(r rune) bool { return r == '\n' || r == '\r' }), " ")
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

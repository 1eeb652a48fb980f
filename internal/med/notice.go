package med

import (
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
)

// Notice is the rights reading given when custody starts
type Notice struct {
	Suspect     string
	Hour        string
	Date        string
	Accusations string
}

// NewNotice fills a notice from the summary metadata. fallbackFacts is read
// when the summary carries no facts.
func NewNotice(meta Meta, now time.Time, fallbackFacts string) Notice {
	accusations := strings.TrimSpace(fallbackFacts)
	if len(meta.Facts) > 0 {
		accusations = strings.Join(meta.Facts, ", ")
	}
	return Notice{
		Suspect:     meta.SuspectName,
		Hour:        now.Format("15:04"),
		Date:        now.Format("02/01/2006"),
		Accusations: accusations,
	}
}

const (
	silenceRight   = "Vous avez le droit de garder le silence. Si vous renoncez à ce droit, tout ce que vous direz pourra et sera retenu contre vous devant une cour de justice."
	lawyerRight    = "Vous avez le droit d'avoir un avocat, et que celui-ci soit présent lors de votre interrogatoire. Si vous n'en avez pas les moyens, un avocat vous sera commis d'office si disponible."
	careRight      = "Vous avez également le droit à une assistance médicale et d'avoir à manger et à boire."
	understood     = "Avez-vous bien compris vos droits ?"
	wishes         = "Souhaitez-vous un avocat et / ou avoir une assistance médicale ?"
	repeatReminder = "A bien dire 3 fois si la personne ne comprend pas, au dessus vous pouvez passer à la suite."
)

// Text renders the notice as read aloud
func (n Notice) Text() string {
	var b strings.Builder
	b.WriteString("Monsieur | Madame : " + n.Suspect + ", il est actuellement " + n.Hour + " et nous sommes le " + n.Date + ".\n\n")
	b.WriteString("Vous êtes placé en garde à vue pour les faits suivants : " + n.Accusations + ". " + silenceRight + "\n\n")
	b.WriteString(lawyerRight + "\n\n")
	b.WriteString(careRight + "\n\n")
	b.WriteString(understood + "\n" + wishes + "\n\n")
	b.WriteString(repeatReminder)
	return b.String()
}

// HTML renders the notice for the preview pane
func (n Notice) HTML() (string, error) {
	return noticeTemplate.Execute(pongo2.Context{
		"notice":     n,
		"silence":    silenceRight,
		"lawyer":     lawyerRight,
		"care":       careRight,
		"understood": understood,
		"wishes":     wishes,
		"reminder":   repeatReminder,
	})
}

// RightsNotice returns the notice text for a summary
func RightsNotice(meta Meta, now time.Time, fallbackFacts string) string {
	return NewNotice(meta, now, fallbackFacts).Text()
}

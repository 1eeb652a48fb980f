package med

import (
	"time"

	"github.com/flosch/pongo2/v6"
)

// pongo2 escapes every variable unless marked safe
var previewTemplate = pongo2.Must(pongo2.FromString(`<div style="font-weight:700;margin-bottom:.5rem">M.E.D — Prévisualisation</div>
<div style="font-size:.95rem;line-height:1.3">
<div><strong>📅 Date :</strong> {{ date }}</div>
<div><strong>👤 Nom :</strong> {{ meta.SuspectName }}</div>
<div><strong>✉️ Email :</strong> {{ mail }}</div>
<div><strong>🆔 ID unique :</strong> {{ meta.UniqueID }}</div>
<div><strong>⏱️ Temps de détention :</strong> {{ meta.TempsDetention }}</div>
{% if meta.Facts %}<div><strong>📚 Faits :</strong></div>
<ul>
{% for f in meta.Facts %}<li>{{ f }}</li>
{% endfor %}</ul>
{% endif %}<div><strong>💰 Amende :</strong> {{ meta.Amende }}</div>
<div><strong>💼 Objets saisis :</strong> {{ objects }}</div>
<div><strong>📎 Lien M.E.D :</strong> {% if meta.MEDLink %}<a href="{{ meta.MEDLink }}" target="_blank" rel="noreferrer">{{ meta.MEDLink }}</a>{% endif %}</div>
<div style="margin-top:.5rem;color:#666;font-size:.85rem">ID: {{ meta.Matricule }} · Poste: {{ meta.Poste }}</div>
</div>`))

var noticeTemplate = pongo2.Must(pongo2.FromString(`<div style="font-weight:700;margin-bottom:.5rem">Lecture des droits — Mise en détention</div>
<div style="line-height:1.4">
<div><strong>Monsieur | Madame :</strong> {{ notice.Suspect }}, <strong>il est actuellement</strong> {{ notice.Hour }} <strong>et nous sommes le</strong> {{ notice.Date }}.</div>
<p>Vous êtes placé en garde à vue pour les faits suivants : <em>{{ notice.Accusations }}</em>.</p>
<p>{{ silence }}</p>
<p>{{ lawyer }}</p>
<p>{{ care }}</p>
<p><strong>{{ understood }}</strong><br>{{ wishes }}</p>
<p style="color:#777;font-size:.9rem">{{ reminder }}</p>
</div>`))

// PreviewHTML renders a built summary for review before it is copied
func PreviewHTML(res Result, now time.Time) (string, error) {
	return previewTemplate.Execute(pongo2.Context{
		"date":    FormatDate(now),
		"meta":    res.Meta,
		"mail":    res.Mail,
		"objects": res.Objects,
	})
}

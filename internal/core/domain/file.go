package domain

// FileMeta describes an attachment belonging to a dossier. Only metadata is
// tracked here; attachment bytes live elsewhere.
type FileMeta struct {
	ID            string `json:"id"`
	NomFichier    string `json:"nom_fichier"`
	CheminFichier string `json:"chemin_fichier"` // logical path, e.g. web://<dossier>/<name>
	DateAjout     string `json:"date_ajout"`     // YYYY-MM-DD
	Size          string `json:"size"`           // opaque display string
}

package auth

// Roles conocidos en el sistema. Vienen del servicio de identidad;
// acá solo guardamos los nombres que los handlers necesitan chequear.
const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleScreener       = "application_screener"
	RolePetCoordinator = "pet_coordinator"
	RoleVeterinarian   = "veterinarian"
	RoleFoster         = "foster"
	RoleAdopter        = "adopter"
	RoleVolunteer      = "volunteer"
)

// Claims representa la información extraída del token.
// OrgID delimita el tenant: toda operación se ejecuta contra una sola org.
type Claims struct {
	UserID string
	Email  string
	OrgID  string
	Roles  []string
}

// HasAnyRole responde si el caller tiene alguno de los roles pedidos.
// Lista vacía => true (endpoint sin restricción de rol).
// Es un chequeo de pertenencia a conjunto, no una jerarquía.
func (c Claims) HasAnyRole(names ...string) bool {
	if len(names) == 0 {
		return true
	}
	for _, want := range names {
		for _, have := range c.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

package syncer

import (
	"github.com/dgallion1/catalogsync/internal/pgstore"
	"github.com/dgallion1/catalogsync/internal/supabase"
)

var (
	_ ObjectStore = (*supabase.Client)(nil)
	_ TableStore  = (*supabase.ProductTable)(nil)
	_ TableStore  = (*pgstore.Store)(nil)
)

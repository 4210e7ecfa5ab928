package memory

import "context"

// TxManager approximates a transaction by serializing invocations: one action
// runs alone, which is exactly the write ordering the engine needs. It holds
// the tx mutex, not the store lock, so the repos inside the transaction can
// take the store lock per call without deadlocking.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(ctx)
}

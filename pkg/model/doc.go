// Package model builds the time-phased network design MILP from a dataset.
//
// Variables and rows are addressed by tagged keys (VarKey, RowKey). Display
// names such as x[0,1] or McC3_2[0,1] are derived from the keys for the solver
// and for name lookups. A Builder owns its registries and one solver problem,
// which Close releases exactly once.
//
// Generated model, for arcs a, periods t < T and commodities k < K:
//
//	x[a,t]       binary    obj c_x[a][t] - c_x[a][t+1] (c_x[a][T-1] in the last period)
//	Phi1[a,t]    [0, U]    obj  omega[t] / |arcs|
//	Phi2[a,t]    [0, U]    obj -omega[t] / |arcs|
//	beta1[t,k]   [0, U]    obj  mu_bar[t][k] + epsilon[t][k]
//	beta2[t,k]   [0, U]    obj -mu_bar[t][k] + epsilon[t][k]
//
//	use[a,t-1]   x[a,t] - x[a,t-1] >= 0                  t >= 1
//	McC1_m[a,t]  Phi_m[a,t] - U x[a,t] <= 0
//	McC2_m[a,t]  Phi_m[a,t] - beta_m[t,L] <= 0
//	McC3_m[a,t]  Phi_m[a,t] - beta_m[t,L] - U x[a,t] >= -U
//
// U is the beta upper bound and L the linked commodity. The McCormick rows
// pair every arc with commodity L only; other commodities get beta columns
// but no rows.
package model

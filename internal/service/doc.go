// Package service defines the concrete configuration vocabulary applied by
// the registry: services are the configurables, and routes, settings,
// permission grants, and identity policies are the actions registered
// against them.
//
// A Service owns the runtime structures its actions apply into (route table,
// setting store, grant table, policy slot). The registry decides which
// actions win and in what order they run; the action kinds here only know
// how to claim their keys and write their effect into the host service.
package service
